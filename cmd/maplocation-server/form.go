package main

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/goliatone/go-maplocation/pkg/binder"
	"github.com/goliatone/go-maplocation/pkg/model"
	"github.com/goliatone/go-maplocation/pkg/render"
	"github.com/goliatone/go-maplocation/pkg/validation"
)

const pageTitle = "Map location"

type validateRequest struct {
	Values map[string]string `json:"values" binding:"required"`
}

func (a *App) showForm(c *gin.Context) {
	a.renderPage(c, http.StatusOK, a.renderOptions(), nil)
}

func (a *App) submitForm(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.String(http.StatusBadRequest, "invalid form payload")
		return
	}
	bindings, err := model.Bind(a.model(), a.preset.Attributes())
	if err != nil {
		a.fail(c, err)
		return
	}

	values := bindings.ValuesFromForm(c.Request.PostForm)
	result, err := validation.ResolveSubmission(c.Request.Context(), bindings, values, a.geocoder, a.validationOptions())
	if err != nil {
		a.logger.Warn("resolve submission, validating as submitted", "error", err)
		result = validation.ValidateSubmission(bindings, values, a.validationOptions())
	}

	opts := a.renderOptions()
	if !result.Valid {
		opts.Values = values
		opts.Errors = result.Errors()
		a.renderPage(c, http.StatusUnprocessableEntity, opts, nil)
		return
	}
	opts.Values = result.Location.Values()
	a.renderPage(c, http.StatusOK, opts, &result.Location)
}

func (a *App) validate(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	bindings, err := model.Bind(a.model(), a.preset.Attributes())
	if err != nil {
		a.fail(c, err)
		return
	}

	values := make(map[model.Field]string, len(req.Values))
	for key, value := range req.Values {
		field, ok := model.ParseField(key)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown field " + key})
			return
		}
		values[field] = value
	}

	result := validation.ValidateSubmission(bindings, values, a.validationOptions())
	status := http.StatusOK
	if !result.Valid {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, result)
}

func (a *App) renderPage(c *gin.Context, status int, opts render.RenderOptions, saved *model.Location) {
	result, err := a.binder.Render(c.Request.Context(), binder.Request{
		Model:         a.model(),
		Attributes:    a.preset.Attributes(),
		FieldTemplate: "{input}{map}",
		Options:       opts,
	})
	if err != nil {
		a.fail(c, err)
		return
	}

	data := map[string]any{
		"lang":       a.lang(),
		"title":      pageTitle,
		"action":     c.Request.URL.Path,
		"address_id": result.Bindings.Address().InputID,
		"widget":     result.HTML(),
		"maps_url":   result.MapsScriptURL,
	}
	if saved != nil {
		raw, err := json.MarshalIndent(saved, "", "  ")
		if err != nil {
			a.fail(c, err)
			return
		}
		data["location"] = string(raw)
	}

	page, err := a.pages.RenderTemplate("page", data)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.Data(status, "text/html; charset=utf-8", []byte(page))
}

func (a *App) renderOptions() render.RenderOptions {
	return render.RenderOptions{Locale: a.cfg.Widget.Locale}
}

func (a *App) validationOptions() validation.Options {
	return validation.Options{
		AddressNotFound: a.preset.AddressNotFound,
		Locale:          a.cfg.Widget.Locale,
		RequireAddress:  true,
	}
}

func (a *App) lang() string {
	if a.cfg.Widget.Locale != "" {
		return a.cfg.Widget.Locale
	}
	return "en"
}

func (a *App) fail(c *gin.Context, err error) {
	a.logger.Error("request failed", "path", c.Request.URL.Path, "error", err)
	c.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}
