package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"rentzy/internal/app/handlers/listings"
	"rentzy/internal/app/services/auth"
	domainbooking "rentzy/internal/domain/booking"
	domaincategory "rentzy/internal/domain/category"
	domainlistings "rentzy/internal/domain/listings"
	domainrange "rentzy/internal/domain/shared/daterange"
	domainuser "rentzy/internal/domain/user"
)

// statusFor maps domain errors onto HTTP statuses. Unknown errors are
// treated as internal and their detail withheld from the response.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domainlistings.ErrNotFound),
		errors.Is(err, domainbooking.ErrNotFound),
		errors.Is(err, domaincategory.ErrNotFound),
		errors.Is(err, domainuser.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainlistings.ErrUnavailable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domainbooking.ErrDatesConflict),
		errors.Is(err, domainbooking.ErrInvalidTransition),
		errors.Is(err, domainuser.ErrEmailTaken),
		errors.Is(err, domainuser.ErrPhoneTaken),
		errors.Is(err, domainuser.ErrNationalIDTaken),
		errors.Is(err, domainuser.ErrTaxIDTaken):
		return http.StatusConflict
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrSessionNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, listings.ErrNotListingOwner):
		return http.StatusForbidden
	case errors.Is(err, domainrange.ErrMalformedDate),
		errors.Is(err, domainrange.ErrEndNotAfter),
		errors.Is(err, domainbooking.ErrStartInPast),
		errors.Is(err, domainbooking.ErrRenterRequired),
		errors.Is(err, domainbooking.ErrListingRequired),
		errors.Is(err, auth.ErrPasswordTooShort),
		errors.Is(err, domainlistings.ErrTitleRequired),
		errors.Is(err, domainlistings.ErrDescRequired),
		errors.Is(err, domainlistings.ErrLocationRequired),
		errors.Is(err, domainlistings.ErrInvalidPrice),
		errors.Is(err, domainlistings.ErrOwnerRequired),
		errors.Is(err, domainlistings.ErrCategoryRequired),
		errors.Is(err, domainuser.ErrNameRequired),
		errors.Is(err, domainuser.ErrInvalidEmail),
		errors.Is(err, domainuser.ErrInvalidPhone),
		errors.Is(err, domainuser.ErrInvalidNationalID),
		errors.Is(err, domainuser.ErrInvalidTaxID),
		errors.Is(err, domainuser.ErrInvalidRole):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func messageFor(err error, status int) string {
	if status == http.StatusInternalServerError {
		return "internal error"
	}
	return err.Error()
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	c.JSON(status, gin.H{"error": messageFor(err, status)})
}
