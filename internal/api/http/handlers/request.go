package handlers

import (
	"io"
	"mime"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/clubhouse/club-cms/internal/api/dto"
	"github.com/clubhouse/club-cms/internal/media"
	apperrors "github.com/clubhouse/club-cms/pkg/util"
)

// readFields flattens a JSON, urlencoded or multipart body into dto.Fields.
func readFields(c *fiber.Ctx) (dto.Fields, error) {
	switch mediaType(c) {
	case fiber.MIMEMultipartForm:
		form, err := c.MultipartForm()
		if err != nil {
			return nil, apperrors.NewValidationError("invalid multipart body", nil)
		}
		fields := dto.Fields{}
		for key, values := range form.Value {
			if len(values) > 0 {
				fields[key] = values[0]
			}
		}
		return fields, nil
	case fiber.MIMEApplicationForm:
		fields := dto.Fields{}
		c.Request().PostArgs().VisitAll(func(key, value []byte) {
			if _, seen := fields[string(key)]; !seen {
				fields[string(key)] = string(value)
			}
		})
		return fields, nil
	case fiber.MIMEApplicationJSON, "":
		return dto.FieldsFromJSON(c.Body())
	default:
		return nil, apperrors.NewDomainError("VALIDATION_FAILED", "unsupported content type", fiber.StatusUnsupportedMediaType, nil)
	}
}

// readFile returns the uploaded file in field, or nil when none was sent.
func readFile(c *fiber.Ctx, field string) (*media.File, error) {
	if mediaType(c) != fiber.MIMEMultipartForm {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, apperrors.NewValidationError("invalid multipart body", nil)
	}
	headers := form.File[field]
	if len(headers) == 0 {
		return nil, nil
	}
	header := headers[0]

	f, err := header.Open()
	if err != nil {
		return nil, apperrors.NewUploadError(err, false)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, apperrors.NewUploadError(err, false)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return &media.File{
		Name:        header.Filename,
		ContentType: header.Header.Get(fiber.HeaderContentType),
		Data:        data,
	}, nil
}

func mediaType(c *fiber.Ctx) string {
	raw := string(c.Request().Header.ContentType())
	if raw == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(raw)
	if err != nil {
		return raw
	}
	return strings.ToLower(mt)
}
