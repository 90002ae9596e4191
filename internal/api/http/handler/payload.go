package handler

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/invitekeeper/internal/apierror"
	"github.com/dtroode/invitekeeper/internal/model"
)

// Multipart field names used by web clients when uploading invites.
const (
	dataField       = "data"
	coverImageField = "cover_image"
)

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm)
}

// decodeInvitePayload fills dst from either a multipart form, with the invite
// JSON in the data field and an optional cover_image file, or a JSON body.
// The returned release func closes the uploaded file and is never nil.
func decodeInvitePayload(c *fiber.Ctx, dst any) (*model.MediaFile, func(), error) {
	release := func() {}

	if !isMultipart(c) {
		if err := c.BodyParser(dst); err != nil {
			return nil, release, apierror.NewErrValidation("Invalid request body", "request body must be a JSON object")
		}
		return nil, release, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, release, apierror.NewErrValidation("Invalid form", "request body must be a multipart form")
	}

	data := form.Value[dataField]
	if len(data) == 0 || data[0] == "" {
		return nil, release, apierror.NewErrValidation("Missing data field", "multipart form must carry the invite as JSON in the data field")
	}
	if err := json.Unmarshal([]byte(data[0]), dst); err != nil {
		return nil, release, apierror.NewErrValidation("Invalid data field", "data field must be a JSON object")
	}

	files := form.File[coverImageField]
	if len(files) == 0 {
		return nil, release, nil
	}

	header := files[0]
	file, err := header.Open()
	if err != nil {
		return nil, release, fmt.Errorf("failed to open cover image: %w", err)
	}

	media := &model.MediaFile{
		Name:        header.Filename,
		ContentType: header.Header.Get(fiber.HeaderContentType),
		Size:        header.Size,
		Reader:      file,
	}
	return media, func() { _ = file.Close() }, nil
}
