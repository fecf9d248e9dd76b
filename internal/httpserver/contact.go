package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"petrugs-storefront/internal/catalog"
	"petrugs-storefront/internal/domain"
	"petrugs-storefront/internal/logging"
	contactsvc "petrugs-storefront/internal/service/contact"
)

func contactHandler(svc contactService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in contactsvc.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name, a valid email and message are required"})
			return
		}

		saved, err := svc.Submit(c.Request.Context(), in)
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		case err != nil:
			if !errors.Is(err, catalog.ErrDataServiceUnavailable) {
				logging.FromContext(c.Request.Context(), nil).Error("submit contact message", "error", err)
			}
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"title": "Error",
				"error": "There was an error sending your message. Please try again.",
			})
			return
		}

		c.JSON(http.StatusCreated, contactResponse{
			ID:      saved.ID,
			Title:   "Message Sent!",
			Message: "Thank you for contacting us. We'll get back to you soon.",
		})
	}
}
