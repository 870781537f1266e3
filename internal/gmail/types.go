package gmail

import (
	gm "google.golang.org/api/gmail/v1"
)

// EmailSummary is a normalized, read-only projection of a Gmail message.
type EmailSummary struct {
	ID      string `json:"id"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	Snippet string `json:"snippet"`
	Date    string `json:"date"`
	Unread  bool   `json:"unread"`
}

// ListResult holds the outcome of a ListRecent call. Count always equals
// len(Emails).
type ListResult struct {
	Count  int            `json:"count"`
	Emails []EmailSummary `json:"emails"`
}

// toEmailSummary converts a full Gmail message to an EmailSummary.
func toEmailSummary(msg *gm.Message) EmailSummary {
	summary := EmailSummary{
		Subject: "No Subject",
		From:    "Unknown",
		Date:    "Unknown",
	}
	if msg == nil {
		return summary
	}

	summary.ID = msg.Id
	summary.Snippet = msg.Snippet

	if msg.Payload != nil {
		for _, h := range msg.Payload.Headers {
			switch h.Name {
			case "Subject":
				summary.Subject = h.Value
			case "From":
				summary.From = h.Value
			case "Date":
				summary.Date = h.Value
			}
		}
	}

	for _, label := range msg.LabelIds {
		if label == "UNREAD" {
			summary.Unread = true
			break
		}
	}

	return summary
}
