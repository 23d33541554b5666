package vasttrafik

// Response payloads. Only the fields tramtid reads are declared.

type locationsResponse struct {
	Results []location `json:"results"`
}

type location struct {
	GID          string `json:"gid"`
	Name         string `json:"name"`
	LocationType string `json:"locationType"`
}

type departuresResponse struct {
	Results []departure `json:"results"`
}

type departure struct {
	ServiceJourney                serviceJourney `json:"serviceJourney"`
	StopPoint                     stopPoint      `json:"stopPoint"`
	PlannedTime                   string         `json:"plannedTime"`
	EstimatedTime                 string         `json:"estimatedTime"`
	EstimatedOtherwisePlannedTime string         `json:"estimatedOtherwisePlannedTime"`
	IsCancelled                   bool           `json:"isCancelled"`
}

type serviceJourney struct {
	GID       string `json:"gid"`
	Direction string `json:"direction"`
	Line      line   `json:"line"`
}

type line struct {
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
}

type stopPoint struct {
	GID      string `json:"gid"`
	Name     string `json:"name"`
	Platform string `json:"platform"`
}

type journeysResponse struct {
	Results []journey `json:"results"`
}

type journey struct {
	TripLegs []tripLeg `json:"tripLegs"`
}

type tripLeg struct {
	Origin                 callDetails    `json:"origin"`
	Destination            callDetails    `json:"destination"`
	ServiceJourney         serviceJourney `json:"serviceJourney"`
	PlannedDepartureTime   string         `json:"plannedDepartureTime"`
	EstimatedDepartureTime string         `json:"estimatedDepartureTime"`
	PlannedArrivalTime     string         `json:"plannedArrivalTime"`
	EstimatedArrivalTime   string         `json:"estimatedArrivalTime"`
}

type callDetails struct {
	StopPoint     stopPoint `json:"stopPoint"`
	PlannedTime   string    `json:"plannedTime"`
	EstimatedTime string    `json:"estimatedTime"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
