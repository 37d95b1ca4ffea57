package processor

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/heyjunin/maaw/pkg/errors"
	"github.com/heyjunin/maaw/pkg/logger"
	"github.com/heyjunin/maaw/pkg/progress"
)

// Image is one uploaded file.
type Image struct {
	Filename string
	Data     []byte
}

// Submission is a product upload from a team member.
type Submission struct {
	Text        string
	Token       string
	GPSLocation string
	Images      []Image
}

// Result is the processed archive of a submission.
type Result struct {
	Message         string   `json:"message"`
	ImagesProcessed int      `json:"images_processed"`
	Filename        string   `json:"filename"`
	Description     string   `json:"-"`
	Location        Location `json:"-"`
	Archive         []byte   `json:"-"`
}

// ArchiveBase64 is the archive as carried in JSON responses.
func (r *Result) ArchiveBase64() string {
	return base64.StdEncoding.EncodeToString(r.Archive)
}

// ArchiveName is the download name of a member's archive.
func ArchiveName(token string) string {
	return token + "_product.zip"
}

// Processor turns a submission into a zip of normalized JPEG images, the
// rewritten description and the original text.
type Processor struct {
	options   Options
	describer Describer
	progRep   progress.Reporter
	logger    logger.Logger
}

// New creates a Processor that keeps descriptions unchanged.
func New(options Options, reporter progress.Reporter) *Processor {
	return NewWithDeps(options, reporter, logger.NewLogger(), nil)
}

// NewWithDeps creates a Processor with custom dependencies. A nil describer
// passes text through; a nil reporter discards progress.
func NewWithDeps(options Options, reporter progress.Reporter, log logger.Logger, describer Describer) *Processor {
	if describer == nil {
		describer = Passthrough{}
	}
	if reporter == nil {
		reporter = progress.NewNop()
	}
	if log == nil {
		log = logger.NewLogger()
	}
	return &Processor{
		options:   options.withDefaults(),
		describer: describer,
		progRep:   reporter,
		logger:    log,
	}
}

// Process validates and converts a submission. A failing describer does not
// fail the submission; the original text is used instead.
func (p *Processor) Process(ctx context.Context, sub Submission) (*Result, error) {
	if err := sub.Validate(p.options.MaxImages); err != nil {
		return nil, err
	}
	location, _ := LookupLocation(sub.GPSLocation)

	p.logger.Info("Processing product", "processor", map[string]interface{}{
		"token":        sub.Token,
		"images":       len(sub.Images),
		"text_length":  len(sub.Text),
		"gps_location": location.Name,
	})

	description, err := p.describer.Describe(ctx, sub.Text)
	if err != nil {
		p.logger.Warn("Description rewrite failed, using original text", "processor", map[string]interface{}{
			"token": sub.Token,
			"error": err.Error(),
		})
		description = sub.Text
	}

	p.progRep.Start(int64(len(sub.Images)))
	defer p.progRep.Complete()

	now := p.options.Now()
	files := make([]archiveFile, 0, len(sub.Images)+2)
	for i, img := range sub.Images {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		info, err := DetectImageInfo(img.Data)
		if err != nil {
			return nil, withFilename(err, img.Filename)
		}
		jpg, err := ConvertToJPEG(img.Data, p.options.Quality)
		if err != nil {
			return nil, withFilename(err, img.Filename)
		}
		name := ImageFilename(now, i+1)
		files = append(files, archiveFile{name: name, data: jpg})
		p.progRep.Increment("processing", fmt.Sprintf("Image %d/%d", i+1, len(sub.Images)))

		p.logger.Debug("Image processed", "processor", map[string]interface{}{
			"source": img.Filename,
			"format": info.Format,
			"width":  info.Width,
			"height": info.Height,
			"name":   name,
			"bytes":  len(jpg),
		})
	}

	files = append(files,
		archiveFile{name: DescriptionFile, data: []byte(description)},
		archiveFile{name: OriginalTextFile, data: []byte(sub.Text)},
	)
	archive, err := writeArchive(files, now)
	if err != nil {
		return nil, err
	}

	p.logger.Info("Processing complete", "processor", map[string]interface{}{
		"token":    sub.Token,
		"images":   len(sub.Images),
		"zip_size": len(archive),
	})

	return &Result{
		Message:         "Product processed successfully",
		ImagesProcessed: len(sub.Images),
		Filename:        ArchiveName(sub.Token),
		Description:     description,
		Location:        location,
		Archive:         archive,
	}, nil
}

func withFilename(err error, filename string) error {
	if structured, ok := errors.As(err); ok {
		structured.Details = fmt.Sprintf("%s: %s", filename, structured.Details)
	}
	return err
}
