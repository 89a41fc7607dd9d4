package assistant

import (
	"regexp"
	"strings"
)

// messageInfo is what could be parsed out of a "send a message" query.
type messageInfo struct {
	Content   string
	Recipient string
}

// emailInfo is what could be parsed out of a "send an email" query.
type emailInfo struct {
	Content   string
	Subject   string
	Recipient string
}

var messageContentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)send\s+(?:him|her|them)?\s*["']([^"']+)["']`),
	regexp.MustCompile(`(?i)message\s+(?:him|her|them)?\s*["']([^"']+)["']`),
	regexp.MustCompile(`(?i)tell\s+(?:him|her|them)?\s*["']([^"']+)["']`),
	regexp.MustCompile(`(?i)say\s+["']([^"']+)["']`),
}

var messageRecipientPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:to|message)\s+([A-Za-z\s]+)(?:\s+that|\s+to|\s+about)`),
	regexp.MustCompile(`(?i)(?:send|tell)\s+([A-Za-z\s]+)\s+that`),
}

var emailContentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)email\s+(?:him|her|them)?\s*["']([^"']+)["']`),
	regexp.MustCompile(`(?i)send\s+(?:an\s+)?email\s+["']([^"']+)["']`),
	regexp.MustCompile(`(?i)compose\s+["']([^"']+)["']`),
}

var emailSubjectPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)subject\s+["']([^"']+)["']`),
	regexp.MustCompile(`(?i)about\s+["']([^"']+)["']`),
}

var emailRecipientPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:to|email)\s+([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`),
	regexp.MustCompile(`(?i)(?:to|email)\s+([A-Za-z\s]+)(?:\s+that|\s+to|\s+about)`),
}

func firstMatch(patterns []*regexp.Regexp, query string) string {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(query); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

func extractMessageInfo(query string) messageInfo {
	return messageInfo{
		Content:   firstMatch(messageContentPatterns, query),
		Recipient: firstMatch(messageRecipientPatterns, query),
	}
}

func extractEmailInfo(query string) emailInfo {
	return emailInfo{
		Content:   firstMatch(emailContentPatterns, query),
		Subject:   firstMatch(emailSubjectPatterns, query),
		Recipient: firstMatch(emailRecipientPatterns, query),
	}
}
