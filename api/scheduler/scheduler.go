package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/miralles/wedding-rsvp-api/config"
	"github.com/miralles/wedding-rsvp-api/databases"
	templates "github.com/miralles/wedding-rsvp-api/templates/html"
)

// Scheduler handles periodic background jobs for the RSVP service
type Scheduler struct {
	cron  *cron.Cron
	Codes databases.InviteCodeDatabase
	RSVPs databases.RSVPDatabase
	conf  config.Config
}

// NewScheduler creates a new scheduler instance
func NewScheduler(codes databases.InviteCodeDatabase, rsvps databases.RSVPDatabase, conf config.Config) *Scheduler {
	return &Scheduler{
		cron:  cron.New(cron.WithLocation(time.UTC)),
		Codes: codes,
		RSVPs: rsvps,
		conf:  conf,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Deactivate invitation codes past their expiry hourly
	_, err := s.cron.AddFunc("0 * * * *", s.ExpireCodes)
	if err != nil {
		zap.S().Errorw("failed to register code expiry job", "error", err)
	}

	// Send the couple their attendance summary every morning at 7 AM UTC
	_, err = s.cron.AddFunc("0 7 * * *", s.SendDailyDigest)
	if err != nil {
		zap.S().Errorw("failed to register daily digest job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("RSVP scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("RSVP scheduler stopped")
}

// ExpireCodes deactivates every active code whose expiresAt has passed.
// Expired codes are already rejected at validation time; the sweep keeps the
// admin list view honest about what is live.
func (s *Scheduler) ExpireCodes() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	now := time.Now().UTC()
	filter := bson.M{
		"isActive":  true,
		"expiresAt": bson.M{"$ne": nil, "$lt": now},
	}

	expired, err := s.Codes.Find(ctx, filter)
	if err != nil {
		zap.S().Errorw("failed to find expired codes", "error", err)
		return
	}

	deactivated := 0
	for _, code := range expired {
		err := s.Codes.UpdateOne(ctx, bson.M{"_id": code.ID}, bson.M{
			"$set": bson.M{"isActive": false, "updatedAt": now},
		})
		if err != nil {
			zap.S().Errorw("failed to deactivate expired code", "error", err, "code", code.Code)
			continue
		}
		deactivated++
	}

	if deactivated > 0 {
		zap.S().Infow("code expiry sweep complete", "deactivated", deactivated)
	}
}

// SendDailyDigest emails the couple the current attendance totals
func (s *Scheduler) SendDailyDigest() {
	if s.conf.OwnerEmail == "" {
		zap.S().Debug("no owner email configured, skipping daily digest")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	rsvps, err := s.RSVPs.Find(ctx, bson.D{})
	if err != nil {
		zap.S().Errorw("failed to load rsvps for daily digest", "error", err)
		return
	}

	confirmed, declined, confirmedGuests := 0, 0, 0
	for _, rv := range rsvps {
		if rv.Attending() {
			confirmed++
			confirmedGuests += rv.GuestsCount
		} else {
			declined++
		}
	}

	subject := fmt.Sprintf("Daily RSVP Summary - %s", s.conf.EventName)
	htmlContent := templates.RenderDailyDigestEmail(s.conf.EventName, confirmed, declined, confirmedGuests)
	plainText := fmt.Sprintf("Confirmed: %d, Declined: %d, Guests attending: %d", confirmed, declined, confirmedGuests)

	if err := s.sendEmail(s.conf.OwnerEmail, "", subject, htmlContent, plainText); err != nil {
		zap.S().Errorw("failed to send daily digest", "error", err)
		return
	}
	zap.S().Infow("daily digest sent", "confirmed", confirmed, "declined", declined)
}

func (s *Scheduler) sendEmail(toEmail, toName, subject, htmlContent, plainText string) error {
	if s.conf.SendgridAPIKey == "" {
		zap.S().Infow("sendgrid not configured, skipping email", "to", toEmail, "subject", subject)
		return nil
	}
	from := mail.NewEmail(s.conf.EventName, s.conf.OwnerEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainText, htmlContent)
	client := sendgrid.NewSendClient(s.conf.SendgridAPIKey)
	response, err := client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		zap.S().Errorw("sendgrid returned error status", "status", response.StatusCode, "body", response.Body)
		return fmt.Errorf("sendgrid error: status %d", response.StatusCode)
	}
	return nil
}
