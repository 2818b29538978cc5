package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/ishanKurnal/WanderLust/internal/api/middleware"
	"github.com/ishanKurnal/WanderLust/internal/services"
)

// listingForm is the body of POST /listings.
type listingForm struct {
	Title       string `form:"listing[title]" label:"Title" binding:"required"`
	Description string `form:"listing[description]" label:"Description"`
	Price       string `form:"listing[price]" label:"Price" binding:"required,numeric,nonnegative"`
	Location    string `form:"listing[location]" label:"Location" binding:"required"`
	Country     string `form:"listing[country]" label:"Country" binding:"required"`
	Category    string `form:"listing[category]" label:"Category"`
}

func (f *listingForm) input() services.ListingInput {
	price, _ := strconv.ParseFloat(f.Price, 64)
	return services.ListingInput{
		Title:       strings.TrimSpace(f.Title),
		Description: strings.TrimSpace(f.Description),
		Price:       price,
		Location:    strings.TrimSpace(f.Location),
		Country:     strings.TrimSpace(f.Country),
		Category:    strings.TrimSpace(f.Category),
	}
}

// listingUpdateForm is the body of PUT /listings/:id. Absent fields are left unchanged.
type listingUpdateForm struct {
	Title       *string `form:"listing[title]" label:"Title" binding:"omitnil,min=1"`
	Description *string `form:"listing[description]" label:"Description"`
	Price       *string `form:"listing[price]" label:"Price" binding:"omitnil,numeric,nonnegative"`
	Location    *string `form:"listing[location]" label:"Location" binding:"omitnil,min=1"`
	Country     *string `form:"listing[country]" label:"Country" binding:"omitnil,min=1"`
	Category    *string `form:"listing[category]" label:"Category"`
}

func (f *listingUpdateForm) patch() services.ListingPatch {
	patch := services.ListingPatch{
		Title:       trimmed(f.Title),
		Description: trimmed(f.Description),
		Location:    trimmed(f.Location),
		Country:     trimmed(f.Country),
		Category:    trimmed(f.Category),
	}
	if f.Price != nil {
		if price, err := strconv.ParseFloat(*f.Price, 64); err == nil {
			patch.Price = &price
		}
	}
	return patch
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// reviewForm is the body of POST /listings/:id/reviews.
type reviewForm struct {
	Comment string `form:"review[comment]" label:"Comment" binding:"required"`
	Rating  string `form:"review[rating]" label:"Rating" binding:"omitempty,rating"`
}

func (f *reviewForm) input() services.ReviewInput {
	in := services.ReviewInput{Comment: strings.TrimSpace(f.Comment)}
	if rating, err := strconv.Atoi(f.Rating); err == nil {
		in.Rating = &rating
	}
	return in
}

type signupForm struct {
	Username string `form:"username" label:"Username" binding:"required"`
	Email    string `form:"email" label:"Email" binding:"required,email"`
	Password string `form:"password" label:"Password" binding:"required,min=6,maxbytes=72"`
}

type loginForm struct {
	Username string `form:"username" label:"Username" binding:"required"`
	Password string `form:"password" label:"Password" binding:"required"`
}

var registerOnce sync.Once

// RegisterValidators adds the form validators and label-based field names to
// gin's validator. Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			if label := field.Tag.Get("label"); label != "" {
				return label
			}
			return field.Name
		})
		_ = v.RegisterValidation("nonnegative", func(fl validator.FieldLevel) bool {
			n, err := strconv.ParseFloat(fl.Field().String(), 64)
			return err == nil && n >= 0
		})
		_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
			limit, err := strconv.Atoi(fl.Param())
			return err == nil && len(fl.Field().String()) <= limit
		})
		_ = v.RegisterValidation("rating", func(fl validator.FieldLevel) bool {
			n, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
			return err == nil && n >= 1 && n <= 5
		})
	})
}

// bindForm binds and validates the request body. Every violation is reported
// in one message joined with ", ".
func bindForm(c *gin.Context, form any) error {
	err := c.ShouldBind(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, violationMessage(fe))
		}
		return middleware.NewHTTPError(http.StatusBadRequest, strings.Join(msgs, ", "))
	}
	return middleware.NewHTTPError(http.StatusBadRequest, "Invalid form submission")
}

func violationMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "numeric":
		return fmt.Sprintf("%s must be a number", field)
	case "nonnegative":
		return fmt.Sprintf("%s must be greater than or equal to 0", field)
	case "maxbytes":
		return fmt.Sprintf("%s must be at most %s bytes long", field, fe.Param())
	case "rating":
		return fmt.Sprintf("%s must be a whole number between 1 and 5", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "min":
		if fe.Param() == "1" {
			return fmt.Sprintf("%s is not allowed to be empty", field)
		}
		return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
