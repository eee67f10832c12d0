// Package handlers adapts HTTP requests to service calls. Each handler binds
// and validates the request with gin, calls one service method and maps the
// service's sentinel errors to status codes.
package handlers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"policeapp/internal/domain/entities"
)

// RegisterValidators adds the custom binding tags used by the request
// structs. It must run once before the router serves requests.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("crimetype", func(fl validator.FieldLevel) bool {
		_, ok := entities.ParseCrimeType(fl.Field().String())
		return ok
	})
}

// coordsQuery is the lat/lon pair accepted by the location and nearby
// endpoints. Pointers let "required" accept 0 as a valid coordinate.
type coordsQuery struct {
	Lat *float64 `form:"lat" binding:"required,gte=-90,lte=90"`
	Lon *float64 `form:"lon" binding:"required,gte=-180,lte=180"`
}
