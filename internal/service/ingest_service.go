// Package service composes the parser, the image store and the
// publication repository behind the two ingestion entry points: admin
// CRUD and the keyed webhook.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"strconv"

	"github.com/jmoiron/sqlx/types"
	"github.com/sirupsen/logrus"

	"github.com/CataldiDonato/catalogo-autos/internal/model"
	"github.com/CataldiDonato/catalogo-autos/internal/parser"
	"github.com/CataldiDonato/catalogo-autos/internal/repository"
	"github.com/CataldiDonato/catalogo-autos/internal/storage"
)

// ErrMissingInput: the webhook needs at least free text or a manual
// title to build a publication from.
var ErrMissingInput = errors.New("at least 'text' or 'title' is required")

const DefaultTitle = "untitled"

type IngestService struct {
	pubs   *repository.PublicationRepository
	images *storage.ImageStore
	log    *logrus.Logger
}

func NewIngestService(pubs *repository.PublicationRepository, images *storage.ImageStore, log *logrus.Logger) *IngestService {
	return &IngestService{pubs: pubs, images: images, log: log}
}

// FlexValue is a form/JSON field normalized to its raw text. Multipart
// form values arrive as strings already; in JSON it accepts a string, a
// number or an object alike, so callers may send price as a number and
// specs as an object instead of their stringified forms.
type FlexValue string

func (v *FlexValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = FlexValue(s)
		return nil
	}
	*v = FlexValue(data)
	return nil
}

// WebhookInput carries the raw webhook payload. Fields arrive as
// multipart form values or JSON; empty means absent.
type WebhookInput struct {
	Text        string    `form:"text" json:"text"`
	Title       string    `form:"title" json:"title"`
	Price       FlexValue `form:"price" json:"price"`
	Currency    string    `form:"currency" json:"currency"`
	Description string    `form:"description" json:"description"`
	Category    string    `form:"category" json:"category"`
	Specs       FlexValue `form:"specs" json:"specs"`
}

// Draft is a fully resolved publication draft, ready for the store.
type Draft struct {
	Title       string
	Price       float64
	Currency    string
	Description string
	Category    model.Category
	Specs       map[string]interface{}
}

// MergeManual overlays explicit fields onto a parsed draft. Manual
// values win field-by-field; specs maps are merged with manual keys
// taking precedence. Unreadable manual values (bad price, specs that
// are not a JSON object, unknown category) fall back to the parsed
// side rather than failing, matching the parser's best-effort policy.
func MergeManual(parsed parser.Parsed, in WebhookInput) Draft {
	d := Draft{
		Title:       parsed.Title,
		Price:       parsed.Price,
		Currency:    parsed.Currency,
		Description: parsed.Description,
		Category:    parsed.Category,
		Specs:       map[string]interface{}{},
	}
	for k, v := range parsed.Specs {
		d.Specs[k] = v
	}

	if in.Title != "" {
		d.Title = in.Title
	}
	if in.Price != "" {
		if v, err := strconv.ParseFloat(string(in.Price), 64); err == nil && v >= 0 {
			d.Price = v
		}
	}
	if in.Currency != "" {
		d.Currency = in.Currency
	}
	if in.Description != "" {
		d.Description = in.Description
	}
	if in.Category != "" {
		if c, ok := model.ParseCategory(in.Category); ok {
			d.Category = c
		}
	}
	if in.Specs != "" {
		var manual map[string]interface{}
		if err := json.Unmarshal([]byte(in.Specs), &manual); err == nil {
			for k, v := range manual {
				d.Specs[k] = v
			}
		}
	}

	if d.Title == "" {
		d.Title = DefaultTitle
	}
	if d.Currency == "" {
		d.Currency = parser.DefaultCurrency
	}
	return d
}

// IngestWebhook runs the webhook flow: parse the free text when
// present, overlay manual fields, persist the image batch, then create
// the publication in one store transaction. Uploaded files are not
// removed when that transaction fails.
func (s *IngestService) IngestWebhook(ctx context.Context, in WebhookInput, files []*multipart.FileHeader) (*model.Publication, error) {
	if in.Text == "" && in.Title == "" {
		return nil, ErrMissingInput
	}

	var parsed parser.Parsed
	if in.Text != "" {
		parsed = parser.Parse(in.Text)
	} else {
		parsed = parser.Parse("")
	}
	draft := MergeManual(parsed, in)

	var paths []string
	if len(files) > 0 {
		saved, err := s.images.SaveBatch(files)
		if err != nil {
			return nil, err
		}
		for _, f := range saved {
			paths = append(paths, f.Path)
		}
	}

	pub, err := s.createFromDraft(ctx, draft, paths)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"publication_id": pub.ID,
		"title":          pub.Title,
		"images":         len(pub.Images),
	}).Info("publication created via webhook")
	return pub, nil
}

func (s *IngestService) createFromDraft(ctx context.Context, d Draft, imagePaths []string) (*model.Publication, error) {
	specsJSON, err := json.Marshal(d.Specs)
	if err != nil {
		return nil, fmt.Errorf("marshal specs: %w", err)
	}
	p := &model.Publication{
		Title:       d.Title,
		Price:       d.Price,
		Currency:    d.Currency,
		Description: d.Description,
		Category:    d.Category,
		Specs:       types.JSONText(specsJSON),
	}
	if err := s.pubs.Create(ctx, p, imagePaths); err != nil {
		return nil, err
	}
	return p, nil
}
