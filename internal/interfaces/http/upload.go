package http

import (
	"io"

	"github.com/gofiber/fiber/v2"
)

// maxUploadBytes tope de archivos subidos (imágenes, comprobantes, CSV).
const maxUploadBytes = 10 << 20

// readUpload lee el campo multipart "file". Sin multipart usa el cuerpo crudo.
func readUpload(c *fiber.Ctx) (filename, contentType string, data []byte, err error) {
	fh, ferr := c.FormFile("file")
	if ferr != nil {
		body := c.Body()
		if len(body) == 0 {
			return "", "", nil, fiber.NewError(fiber.StatusBadRequest, "archivo requerido (campo 'file')")
		}
		return c.Query("filename", "archivo"), c.Get(fiber.HeaderContentType), body, nil
	}
	if fh.Size > maxUploadBytes {
		return "", "", nil, fiber.NewError(fiber.StatusRequestEntityTooLarge, "archivo demasiado grande")
	}
	f, err := fh.Open()
	if err != nil {
		return "", "", nil, err
	}
	defer f.Close()
	data, err = io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		return "", "", nil, err
	}
	return fh.Filename, fh.Header.Get(fiber.HeaderContentType), data, nil
}

// uploadError responde los errores de readUpload.
func uploadError(c *fiber.Ctx, err error) error {
	if fe, isFiber := err.(*fiber.Error); isFiber {
		return fail(c, fe.Code, "INVALID_FILE", fe.Message)
	}
	return fail(c, fiber.StatusBadRequest, "INVALID_FILE", "no se pudo leer el archivo")
}
