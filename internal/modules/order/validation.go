package order

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/georgemunganga/restro-backend/internal/modules/settings"
	apperrors "github.com/georgemunganga/restro-backend/internal/platform/errors"
)

var mobilePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

// maxQuantity caps a single cart line.
const maxQuantity = 100

// checkServiceOpen rejects orders the restaurant is not accepting right now.
func checkServiceOpen(s *settings.Settings, t ServiceType) error {
	meta := map[string]string{}
	if s.Note != "" {
		meta["note"] = s.Note
	}
	if s.CafeClosed {
		return apperrors.WithMetadata(apperrors.CodeValidation, "cafe is closed", meta)
	}

	var enabled bool
	switch t {
	case ServiceDineIn:
		enabled = s.DineInEnabled
	case ServiceTakeaway:
		enabled = s.TakeawayEnabled
	case ServiceDelivery:
		enabled = s.DeliveryEnabled
	default:
		return apperrors.Validation(fmt.Sprintf("unknown service type %q", t))
	}
	if !enabled {
		return apperrors.WithMetadata(apperrors.CodeValidation,
			fmt.Sprintf("%s service is currently unavailable", t), meta)
	}
	return nil
}

// normalize trims the free-text fields of the request in place.
func (req *PlaceOrderRequest) normalize() {
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerMobile = strings.TrimSpace(req.CustomerMobile)
	if a := req.DeliveryAddress; a != nil {
		a.Flat = strings.TrimSpace(a.Flat)
		a.Area = strings.TrimSpace(a.Area)
		a.Landmark = strings.TrimSpace(a.Landmark)
		a.City = strings.TrimSpace(a.City)
		a.Pincode = strings.TrimSpace(a.Pincode)
		a.Mobile = strings.TrimSpace(a.Mobile)
	}
}

func (req PlaceOrderRequest) validate() error {
	if req.CustomerName == "" {
		return apperrors.Validation("customer_name is required")
	}
	if !mobilePattern.MatchString(req.CustomerMobile) {
		return apperrors.Validation("customer_mobile must be 10 to 15 digits")
	}
	if err := validateAddress(req.ServiceType, req.DeliveryAddress); err != nil {
		return err
	}
	if len(req.Items) == 0 {
		return apperrors.Validation("order must contain at least one item")
	}
	for _, ci := range req.Items {
		if strings.TrimSpace(ci.ItemID) == "" {
			return apperrors.Validation("item_id is required for every item")
		}
		if ci.Quantity <= 0 || ci.Quantity > maxQuantity {
			return apperrors.Validation(fmt.Sprintf("quantity must be between 1 and %d for item %s", maxQuantity, ci.ItemID))
		}
	}
	return nil
}

func validateAddress(t ServiceType, a *Address) error {
	if t != ServiceDelivery {
		if a != nil && *a != (Address{}) {
			return apperrors.Validation("delivery_address is only accepted for delivery orders")
		}
		return nil
	}
	if a == nil {
		return apperrors.Validation("delivery_address is required for delivery orders")
	}

	var missing []string
	for _, f := range []struct{ name, value string }{
		{"flat", a.Flat}, {"area", a.Area}, {"landmark", a.Landmark},
		{"city", a.City}, {"pincode", a.Pincode}, {"mobile", a.Mobile},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return apperrors.WithMetadata(apperrors.CodeValidation,
			"delivery address is incomplete", map[string]string{"missing": strings.Join(missing, ",")})
	}
	return nil
}

func (req FeedbackRequest) validate() error {
	if req.Rating < 1 || req.Rating > 5 {
		return apperrors.Validation("rating must be between 1 and 5")
	}
	return nil
}
