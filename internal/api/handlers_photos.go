package api

import (
	"errors"
	"io"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/bristol/internal/services"
	"github.com/terraincognita07/bristol/internal/storage"
)

// UploadPhoto stores a photo for the composer and reopens the composer with it.
func (handler *Handler) UploadPhoto(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	file, err := c.FormFile("photo")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "photo is required")
	}
	if file.Size <= 0 {
		return apiError(c, fiber.StatusBadRequest, "photo is required")
	}
	if file.Size > storage.MaxPhotoBytes {
		return apiError(c, fiber.StatusRequestEntityTooLarge, "photo is too large")
	}
	ext, err := storage.PhotoExtension(file.Filename)
	if err != nil {
		return apiError(c, fiber.StatusUnsupportedMediaType, "photo type is not allowed")
	}

	source, err := file.Open()
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "photo is required")
	}
	defer source.Close()

	key := storage.NewPhotoKey(user.ID, handler.now().In(handler.location), ext)
	if err := handler.photos.Put(c.UserContext(), key, source, file.Size); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to store photo")
	}

	imageURI := services.PhotoURIPrefix + key
	if acceptsJSON(c) {
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"imageUri": imageURI})
	}
	return redirectOrJSON(c, "/entries/new?"+url.Values{"imageUri": {imageURI}}.Encode())
}

// ServePhoto streams a photo back to the user who uploaded it.
func (handler *Handler) ServePhoto(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	key := c.Params("*")
	if !services.PhotoKeyOwnedBy(key, user.ID) {
		return apiError(c, fiber.StatusNotFound, "photo not found")
	}

	reader, err := handler.photos.Open(c.UserContext(), key)
	if err != nil {
		if errors.Is(err, storage.ErrPhotoNotFound) || errors.Is(err, storage.ErrPhotoKeyInvalid) {
			return apiError(c, fiber.StatusNotFound, "photo not found")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to load photo")
	}
	defer reader.Close()

	content, err := io.ReadAll(io.LimitReader(reader, storage.MaxPhotoBytes+1))
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load photo")
	}

	c.Set(fiber.HeaderContentType, storage.PhotoContentType(key))
	c.Set(fiber.HeaderCacheControl, "private, max-age=86400")
	return c.Send(content)
}
