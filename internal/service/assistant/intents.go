package assistant

import "strings"

type intent string

const (
	intentTeamsMessagesToday intent = "teams_messages_today"
	intentEmailsToday        intent = "outlook_emails_today"
	intentSendTeamsMessage   intent = "send_teams_message"
	intentSendEmail          intent = "send_email"
	intentSummarizeTeams     intent = "summarize_teams_chat"
	intentSummarizeEmails    intent = "summarize_emails"
)

// intentCatalogue maps trigger phrases to intents, in priority order. The
// first phrase found as a substring of the lower-cased query wins.
var intentCatalogue = []struct {
	intent  intent
	phrases []string
}{
	{intentTeamsMessagesToday, []string{"teams messages today", "teams today", "new messages teams", "what's new in teams"}},
	{intentEmailsToday, []string{"emails today", "new emails", "outlook today", "mail today"}},
	{intentSendTeamsMessage, []string{"send teams message", "message someone teams", "teams send"}},
	{intentSendEmail, []string{"send email", "email someone", "compose email"}},
	{intentSummarizeTeams, []string{"summarize teams", "summarize chat", "teams summary"}},
	{intentSummarizeEmails, []string{"summarize emails", "email summary", "summarize mail"}},
}

func detectIntent(query string) (intent, bool) {
	lowered := strings.ToLower(query)
	for _, entry := range intentCatalogue {
		for _, phrase := range entry.phrases {
			if strings.Contains(lowered, phrase) {
				return entry.intent, true
			}
		}
	}
	return "", false
}
