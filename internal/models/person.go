package models

// Person identifies whose Oura data is polled and tags every record produced
// with that person's credentials.
type Person struct {
	Name        string `yaml:"name"`
	AccessToken string `yaml:"access_token"`
}
