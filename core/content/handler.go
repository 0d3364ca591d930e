package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mentorx/platform/api/web"
	"github.com/mentorx/platform/api/weberr"
	"github.com/mentorx/platform/core/claims"
	"github.com/mentorx/platform/database"
	"github.com/mentorx/platform/random"
	"github.com/mentorx/platform/validate"
	"github.com/sirupsen/logrus"
)

// Blob is the slice of the storage layer the content handlers need.
type Blob interface {
	Upload(ctx context.Context, key string, contentType string, body io.Reader) (string, error)
	Remove(ctx context.Context, key string) error
}

const maxPDFBytes = 32 << 20

// moduleOwner reports whether the authenticated mentor owns the course
// the module belongs to.
func moduleOwner(ctx context.Context, db sqlx.ExtContext, moduleID string) error {
	clm, err := claims.Get(ctx)
	if err != nil {
		return weberr.NotAuthorized(errors.New("user not authenticated"))
	}

	var mentorID string
	const q = `
	SELECT c.mentor_id
	FROM modules m JOIN courses c ON c.course_id = m.course_id
	WHERE m.module_id = $1`
	if err := sqlx.GetContext(ctx, db, &mentorID, q, moduleID); err != nil {
		return weberr.NotFound(err)
	}

	if mentorID != clm.UserID {
		return weberr.Forbidden(errors.New("module belongs to another mentor"))
	}

	return nil
}

func checkPayload(kind string, p Payload) error {
	switch kind {
	case KindRichText:
		if p.Body == "" {
			return errors.New("rich text content requires a body")
		}
	case KindExternalVideo:
		if p.VideoURL == "" {
			return errors.New("video content requires a video url")
		}
	case KindPDF:
		if p.PDFURL == "" || p.StoragePath == "" {
			return errors.New("pdf content requires an uploaded file")
		}
	}
	return nil
}

func HandleListByModule(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		moduleID := web.Param(r, "module_id")
		if err := validate.CheckID(moduleID); err != nil {
			return weberr.BadRequest(err)
		}

		items, err := FetchByModule(ctx, db, moduleID)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, items, http.StatusOK)
	}
}

func HandleCreate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var nc ContentNew
		if err := web.Decode(w, r, &nc); err != nil {
			return weberr.BadRequest(err)
		}

		if err := validate.Check(nc); err != nil {
			return weberr.BadRequest(err)
		}

		if err := checkPayload(nc.Kind, nc.Payload); err != nil {
			return weberr.BadRequest(err)
		}

		if err := moduleOwner(ctx, db, nc.ModuleID); err != nil {
			return err
		}

		now := time.Now().UTC()
		c := Content{
			ID:          validate.GenerateID(),
			ModuleID:    nc.ModuleID,
			Title:       nc.Title,
			Description: nc.Description,
			Index:       nc.Index,
			Kind:        nc.Kind,
			Payload:     nc.Payload,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := Create(ctx, db, c); err != nil {
			return err
		}

		return web.Respond(ctx, w, c, http.StatusCreated)
	}
}

// HandleCreatePDF accepts a multipart upload, stores the file in the
// blob store and creates the pdf content item pointing at it.
func HandleCreatePDF(db *sqlx.DB, blob Blob) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		if err := r.ParseMultipartForm(maxPDFBytes); err != nil {
			return weberr.BadRequest(fmt.Errorf("parsing upload: %w", err))
		}

		moduleID := r.FormValue("moduleId")
		title := r.FormValue("title")
		if err := validate.CheckID(moduleID); err != nil {
			return weberr.BadRequest(err)
		}
		if title == "" {
			return weberr.BadRequest(errors.New("title is required"))
		}

		if err := moduleOwner(ctx, db, moduleID); err != nil {
			return err
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			return weberr.BadRequest(fmt.Errorf("reading upload: %w", err))
		}
		defer file.Close()

		key := fmt.Sprintf("pdfs/%s/%s.pdf", moduleID, random.String(20))
		url, err := blob.Upload(ctx, key, "application/pdf", file)
		if err != nil {
			return fmt.Errorf("storing pdf: %w", err)
		}

		index := 0
		if v := r.FormValue("index"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				index = n
			}
		}

		now := time.Now().UTC()
		c := Content{
			ID:          validate.GenerateID(),
			ModuleID:    moduleID,
			Title:       title,
			Description: r.FormValue("description"),
			Index:       index,
			Kind:        KindPDF,
			Payload: Payload{
				PDFURL:      url,
				StoragePath: key,
				FileName:    header.Filename,
				FileSize:    header.Size,
			},
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := Create(ctx, db, c); err != nil {
			return err
		}

		return web.Respond(ctx, w, c, http.StatusCreated)
	}
}

func HandleUpdate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.BadRequest(err)
		}

		var up ContentUp
		if err := web.Decode(w, r, &up); err != nil {
			return weberr.BadRequest(err)
		}

		if err := validate.Check(up); err != nil {
			return weberr.BadRequest(err)
		}

		c, err := Fetch(ctx, db, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return weberr.NotFound(err)
			}
			return err
		}

		if err := moduleOwner(ctx, db, c.ModuleID); err != nil {
			return err
		}

		if up.Title != nil {
			c.Title = *up.Title
		}
		if up.Description != nil {
			c.Description = *up.Description
		}
		if up.Index != nil {
			c.Index = *up.Index
		}
		if up.Payload != nil {
			if c.Kind == KindPDF {
				// The upload path is immutable: it is the only handle
				// left for deleting the blob later.
				up.Payload.StoragePath = c.Payload.StoragePath
				up.Payload.PDFURL = c.Payload.PDFURL
			}
			c.Payload = *up.Payload
		}

		if err := checkPayload(c.Kind, c.Payload); err != nil {
			return weberr.BadRequest(err)
		}

		if err := Update(ctx, db, c); err != nil {
			return err
		}

		return web.Respond(ctx, w, c, http.StatusOK)
	}
}

// HandleDelete removes a content item. For pdf items the backing blob
// is deleted first, best effort: a storage failure is logged and the
// record is removed anyway.
func HandleDelete(db *sqlx.DB, blob Blob, log logrus.FieldLogger) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.BadRequest(err)
		}

		c, err := Fetch(ctx, db, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return weberr.NotFound(err)
			}
			return err
		}

		if err := moduleOwner(ctx, db, c.ModuleID); err != nil {
			return err
		}

		if c.Kind == KindPDF && c.Payload.StoragePath != "" {
			if err := blob.Remove(ctx, c.Payload.StoragePath); err != nil {
				log.WithField("content_id", c.ID).Warnf("could not remove pdf blob: %v", err)
			}
		}

		if err := Delete(ctx, db, id); err != nil {
			return err
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

func HandleReorder(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		moduleID := web.Param(r, "module_id")
		if err := validate.CheckID(moduleID); err != nil {
			return weberr.BadRequest(err)
		}

		if err := moduleOwner(ctx, db, moduleID); err != nil {
			return err
		}

		var ups []OrderUp
		if err := web.Decode(w, r, &ups); err != nil {
			return weberr.BadRequest(err)
		}

		for _, up := range ups {
			if err := validate.Check(up); err != nil {
				return weberr.BadRequest(err)
			}
		}

		err := database.Transaction(db, func(tx sqlx.ExtContext) error {
			for _, up := range ups {
				if err := SetIndex(ctx, tx, up.ID, up.Index); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}
