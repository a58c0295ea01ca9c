package registration

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/paraty-go/backend/pkg/mailer"
)

const (
	// MaxSubmissionSize caps the whole multipart submission, attachments
	// included. Requests above it are rejected, not spilled to disk.
	MaxSubmissionSize = 10 << 20

	maxAttachments = 5
)

// ErrSubmissionTooLarge is returned for submissions exceeding
// MaxSubmissionSize.
var ErrSubmissionTooLarge = errors.Errorf("submission exceeds the %d MiB limit", MaxSubmissionSize>>20)

// Submission is one partner-registration form entry as persisted in the
// document store. Attachments keeps only the file names; the contents go
// out with the notification mail and are not stored.
type Submission struct {
	Name        string    `bson:"name" json:"name"`
	Company     string    `bson:"company" json:"company"`
	Email       string    `bson:"email" json:"email"`
	Phone       string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Message     string    `bson:"message,omitempty" json:"message,omitempty"`
	Attachments []string  `bson:"attachments,omitempty" json:"attachments,omitempty"`
	SubmittedAt time.Time `bson:"submittedAt" json:"submittedAt"`
}

// ParseForm reads a multipart form request into a submission plus the
// attachment contents destined for the notification mail.
func ParseForm(r *http.Request) (*Submission, []mailer.Attachment, error) {
	if r.ContentLength > MaxSubmissionSize {
		return nil, nil, ErrSubmissionTooLarge
	}

	if err := r.ParseMultipartForm(MaxSubmissionSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, nil, ErrSubmissionTooLarge
		}
		return nil, nil, errors.Wrap(err, "invalid multipart form")
	}

	sub := &Submission{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Company:     strings.TrimSpace(r.FormValue("company")),
		Email:       strings.TrimSpace(r.FormValue("email")),
		Phone:       strings.TrimSpace(r.FormValue("phone")),
		Message:     strings.TrimSpace(r.FormValue("message")),
		SubmittedAt: time.Now().UTC(),
	}

	if sub.Name == "" {
		return nil, nil, errors.New(`field "name" is required`)
	}
	if sub.Company == "" {
		return nil, nil, errors.New(`field "company" is required`)
	}
	if sub.Email == "" || !strings.Contains(sub.Email, "@") {
		return nil, nil, errors.New(`field "email" must be a valid address`)
	}

	attachments, err := readAttachments(r)
	if err != nil {
		return nil, nil, err
	}
	for _, att := range attachments {
		sub.Attachments = append(sub.Attachments, att.Filename)
	}

	return sub, attachments, nil
}

func readAttachments(r *http.Request) ([]mailer.Attachment, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	files := r.MultipartForm.File["attachments"]
	if len(files) > maxAttachments {
		return nil, fmt.Errorf("at most %d attachments are allowed, got %d", maxAttachments, len(files))
	}

	attachments := make([]mailer.Attachment, 0, len(files))
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read attachment %q", header.Filename)
		}

		content, err := io.ReadAll(file)
		_ = file.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read attachment %q", header.Filename)
		}

		attachments = append(attachments, mailer.Attachment{
			Filename: header.Filename,
			Content:  content,
		})
	}

	return attachments, nil
}
