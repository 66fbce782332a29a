package docs

// @title Trip Recommendation API
// @version 1.0
// @description Ranks active trips for a traveller by preferences, interests, location, budget and duration.

// @contact.name API Support

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:3000
// @BasePath /
// @schemes http https
