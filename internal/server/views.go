package server

import "github.com/gofiber/fiber/v2"

// Renderer turns a view name and its data into a response. The template
// layer is an external collaborator; the application only decides which view
// to show and with what data.
type Renderer interface {
	Render(c *fiber.Ctx, name string, data fiber.Map) error
}

type jsonRenderer struct{}

// NewJSONRenderer returns the default renderer, which serves the view data
// as JSON with the view name attached.
func NewJSONRenderer() Renderer {
	return jsonRenderer{}
}

func (jsonRenderer) Render(c *fiber.Ctx, name string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["view"] = name
	return c.JSON(data)
}
