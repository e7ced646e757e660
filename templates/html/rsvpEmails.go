package templates

import (
	"fmt"
	"html"
)

// RenderRSVPConfirmationEmail generates the HTML for the guest-facing
// confirmation sent right after an RSVP is recorded.
func RenderRSVPConfirmationEmail(eventName, guestName string, guests int, attending bool) string {
	safeEvent := html.EscapeString(eventName)
	safeName := html.EscapeString(guestName)

	body := fmt.Sprintf(`<h2>Thank you, %s!</h2>
      <p>We are so happy you will be celebrating with us. We have reserved <strong>%d</strong> seat(s) in your name.</p>
      <p>We will be in touch closer to the day with everything you need to know.</p>`, safeName, guests)
	if !attending {
		body = fmt.Sprintf(`<h2>Thank you, %s</h2>
      <p>We are sorry you cannot make it, and we appreciate you letting us know. You will be missed!</p>`, safeName)
	}

	return fmt.Sprintf(`<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Strict//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd">
<html xmlns="http://www.w3.org/1999/xhtml">
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1, minimum-scale=1, maximum-scale=1">
  <title>RSVP Received - %s</title>
  <style type="text/css">
    body { font-family: 'Cormorant Garamond', Georgia, serif; margin: 0; padding: 0; background-color: #faf7f2; }
    .container { max-width: 600px; margin: 0 auto; background-color: #fffdf9; }
    .header { background: linear-gradient(135deg, #c8a97e 0%%, #a67c52 100%%); padding: 40px 30px; text-align: center; }
    .header h1 { color: #fff; margin: 0; font-size: 26px; font-weight: 600; letter-spacing: 1px; }
    .content { padding: 40px 30px; color: #4a4036; line-height: 1.7; font-size: 16px; }
    .content h2 { color: #7a6a55; margin-top: 0; }
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
</html>`, safeEvent, safeEvent, body, safeEvent)
}

// RenderDailyDigestEmail generates the HTML for the daily attendance summary
// sent to the couple.
func RenderDailyDigestEmail(eventName string, confirmed, declined, confirmedGuests int) string {
	safeEvent := html.EscapeString(eventName)

	return fmt.Sprintf(`<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Strict//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd">
<html xmlns="http://www.w3.org/1999/xhtml">
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1, minimum-scale=1, maximum-scale=1">
  <title>Daily RSVP Summary - %s</title>
  <style type="text/css">
    body { font-family: 'Cormorant Garamond', Georgia, serif; margin: 0; padding: 0; background-color: #faf7f2; }
    .container { max-width: 600px; margin: 0 auto; background-color: #fffdf9; }
    .header { background: linear-gradient(135deg, #c8a97e 0%%, #a67c52 100%%); padding: 40px 30px; text-align: center; }
    .header h1 { color: #fff; margin: 0; font-size: 26px; font-weight: 600; letter-spacing: 1px; }
    .content { padding: 40px 30px; color: #4a4036; line-height: 1.7; font-size: 16px; }
    .stat-row { display: flex; justify-content: space-between; border-bottom: 1px solid #ede5d8; padding: 10px 0; }
    .stat-label { color: #7a6a55; }
    .stat-value { font-weight: 700; color: #4a4036; }
    .footer { padding: 30px; text-align: center; color: #a89c8c; font-size: 12px; border-top: 1px solid #ede5d8; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>Daily RSVP Summary</h1>
    </div>
    <div class="content">
      <div class="stat-row"><span class="stat-label">Responses confirmed</span><span class="stat-value">%d</span></div>
      <div class="stat-row"><span class="stat-label">Responses declined</span><span class="stat-value">%d</span></div>
      <div class="stat-row"><span class="stat-label">Guests attending</span><span class="stat-value">%d</span></div>
    </div>
    <div class="footer">
      <p>%s</p>
    </div>
  </div>
</body>
</html>`, safeEvent, confirmed, declined, confirmedGuests, safeEvent)
}
