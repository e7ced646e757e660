package templates

import (
	"fmt"
	"html"
	"strings"
)

// RenderGenericEmail generates branded HTML for a generic email.
// The subject is displayed in the header banner, and bodyContent is plain text
// that gets HTML-escaped and has newlines converted to <br> tags.
func RenderGenericEmail(eventName, subject, bodyContent string) string {
	// HTML-escape the body to prevent injection, then convert newlines to <br>
	escaped := html.EscapeString(bodyContent)
	htmlBody := strings.ReplaceAll(escaped, "\n", "<br>")

	safeSubject := html.EscapeString(subject)
	safeEvent := html.EscapeString(eventName)

	return fmt.Sprintf(`<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Strict//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd">
<html xmlns="http://www.w3.org/1999/xhtml">
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1, minimum-scale=1, maximum-scale=1">
  <title>%s</title>
  <style type="text/css">
    body { font-family: 'Cormorant Garamond', Georgia, serif; margin: 0; padding: 0; background-color: #faf7f2; }
    .container { max-width: 600px; margin: 0 auto; background-color: #fffdf9; }
    .header { background: linear-gradient(135deg, #c8a97e 0%%, #a67c52 100%%); padding: 40px 30px; text-align: center; }
    .header h1 { color: #fff; margin: 0; font-size: 26px; font-weight: 600; letter-spacing: 1px; }
    .content { padding: 40px 30px; color: #4a4036; line-height: 1.7; font-size: 16px; }
    .footer { padding: 30px; text-align: center; color: #a89c8c; font-size: 12px; border-top: 1px solid #ede5d8; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>%s</h1>
    </div>
    <div class="content">
      %s
    </div>
    <div class="footer">
      <p>%s</p>
    </div>
  </div>
</body>
</html>`, safeSubject, safeSubject, htmlBody, safeEvent)
}
