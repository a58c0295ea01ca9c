package registration

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/pkg/errors"
)

const notificationTemplate = `<html>
<body style="font-family: sans-serif; color: #222;">
  <h2>Paraty GO! partner registration</h2>
  <p>A new partner signed up on {{ .SubmittedAt | date "02 Jan 2006 15:04" }} UTC.</p>
  <table cellpadding="4">
    <tr><td><b>Name</b></td><td>{{ .Name }}</td></tr>
    <tr><td><b>Company</b></td><td>{{ .Company }}</td></tr>
    <tr><td><b>Email</b></td><td>{{ .Email }}</td></tr>
    <tr><td><b>Phone</b></td><td>{{ default "not provided" .Phone }}</td></tr>
  </table>
  {{- if .Message }}
  <h3>Message</h3>
  <p>{{ .Message }}</p>
  {{- end }}
  {{- if .Attachments }}
  <h3>Attachments</h3>
  <ul>
    {{- range .Attachments }}
    <li>{{ . }}</li>
    {{- end }}
  </ul>
  {{- end }}
</body>
</html>
`

var notificationTmpl = template.Must(
	template.New("notification").Funcs(sprig.HtmlFuncMap()).Parse(notificationTemplate),
)

// RenderNotification produces the HTML body of the notification mail.
func RenderNotification(sub *Submission) (string, error) {
	var buf bytes.Buffer
	if err := notificationTmpl.Execute(&buf, sub); err != nil {
		return "", errors.Wrap(err, "failed to render notification template")
	}
	return buf.String(), nil
}

// NotificationSubject builds the subject line of the notification mail.
func NotificationSubject(sub *Submission) string {
	return fmt.Sprintf("Paraty GO! partner registration: %s (%s)", sub.Name, sub.Company)
}
