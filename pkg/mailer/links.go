package mailer

import (
	"net/url"
	"strings"
)

// FallbackLinks are the alternate delivery routes offered when the primary
// delegated composition cannot be confirmed: retry the same mailto handoff,
// or open a pre-filled web compose view at one of two providers.
type FallbackLinks struct {
	Mailto  string
	Gmail   string
	Outlook string
}

// Links builds the three fallback routes for a composed message.
func Links(m Message) FallbackLinks {
	return FallbackLinks{
		Mailto:  MailtoURL(m),
		Gmail:   GmailComposeURL(m),
		Outlook: OutlookComposeURL(m),
	}
}

// MailtoURL encodes the triple as a mailto: URL. The address itself stays
// unencoded; spaces in the query are percent-encoded rather than '+' encoded
// because mail handlers do not apply form decoding.
func MailtoURL(m Message) string {
	return "mailto:" + m.Recipient +
		"?subject=" + encode(m.Subject) +
		"&body=" + encode(m.Body)
}

// GmailComposeURL pre-fills Gmail's web compose view.
func GmailComposeURL(m Message) string {
	return "https://mail.google.com/mail/?view=cm&fs=1" +
		"&to=" + encode(m.Recipient) +
		"&su=" + encode(m.Subject) +
		"&body=" + encode(m.Body)
}

// OutlookComposeURL pre-fills Outlook's web compose view.
func OutlookComposeURL(m Message) string {
	return "https://outlook.office.com/mail/deeplink/compose" +
		"?to=" + encode(m.Recipient) +
		"&subject=" + encode(m.Subject) +
		"&body=" + encode(m.Body)
}

func encode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
