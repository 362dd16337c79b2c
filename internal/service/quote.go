package service

import "time"

// Quote is a motivational line shown on the dashboard.
type Quote struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

var quotes = []Quote{
	{"The secret of getting ahead is getting started.", "Mark Twain"},
	{"Success is the sum of small efforts repeated day in and day out.", "Robert Collier"},
	{"Consistency is what transforms average into excellence.", "Unknown"},
	{"It's not what we do once in a while that shapes our lives. It's what we do consistently.", "Tony Robbins"},
	{"Small daily improvements over time lead to stunning results.", "Robin Sharma"},
	{"The only way to do great work is to love what you do.", "Steve Jobs"},
	{"Discipline is choosing between what you want now and what you want most.", "Abraham Lincoln"},
	{"You don't have to be great to start, but you have to start to be great.", "Zig Ziglar"},
	{"Excellence is not a singular act, but a habit. You are what you repeatedly do.", "Shaquille O'Neal"},
	{"The difference between ordinary and extraordinary is that little extra.", "Jimmy Johnson"},
}

// QuoteOfTheDay rotates through the list by day of year.
func QuoteOfTheDay(day time.Time) Quote {
	return quotes[day.YearDay()%len(quotes)]
}
