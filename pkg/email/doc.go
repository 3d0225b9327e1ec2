// Package email sends transactional messages through a provider-agnostic
// EmailSender.
//
// Two senders are available:
//   - NewPostmarkClient delivers through Postmark with open and link tracking.
//   - NewDevSender writes each message to disk as an HTML body plus a JSON
//     metadata file, for local development and manual inspection.
//
// Both validate SendEmailParams before doing any work and report invalid
// input with ErrInvalidParams and delivery problems with ErrFailedToSendEmail.
//
//	sender, err := email.NewPostmarkClient(email.Config{
//	    PostmarkServerToken:  token,
//	    PostmarkAccountToken: account,
//	    SenderEmail:          "events@example.com",
//	    SupportEmail:         "support@example.com",
//	})
//	if err != nil {
//	    return err
//	}
//	err = sender.SendEmail(ctx, email.SendEmailParams{
//	    SendTo:   "guest@example.com",
//	    Subject:  "You are invited",
//	    BodyHTML: html,
//	    Tag:      "invitation",
//	})
//
// Message bodies are produced by the templates subpackage.
package email
