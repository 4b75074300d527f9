package domain

import "strings"

// JobRecord is a single listing as returned by a job source. Only Title and
// Description feed skill extraction; the rest is carried for reports.
type JobRecord struct {
	Title       string
	Description string
	Company     string
	Location    string
	Source      string // serpapi/jsearch/mailbox
}

// NewJobRecord trims the fields a provider hands back. Missing values stay empty.
func NewJobRecord(source, title, description, company, location string) JobRecord {
	return JobRecord{
		Title:       strings.TrimSpace(title),
		Description: description,
		Company:     strings.TrimSpace(company),
		Location:    strings.TrimSpace(location),
		Source:      source,
	}
}

// DisplayTitle falls back to a placeholder for untitled listings.
func (j JobRecord) DisplayTitle() string {
	if j.Title == "" {
		return "Unknown Job"
	}
	return j.Title
}
