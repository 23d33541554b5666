// Package file persists the access token as a JSON file.
package file
