package global

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// InitValidator khởi tạo và đăng ký các custom validator
func InitValidator() {
	Validate = validator.New()

	_ = Validate.RegisterValidation("email_shape", validateEmailShape)
	_ = Validate.RegisterValidation("short_code", validateShortCode)
	_ = Validate.RegisterValidation("channel_set", validateChannelSet)
}

var emailShapeRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// validateEmailShape kiểm tra hình dạng email cơ bản (dùng cho sender của webhook inbound).
// Nhẹ hơn validator "email" mặc định — chỉ cần đúng shape local@domain.tld.
func validateEmailShape(fl validator.FieldLevel) bool {
	return emailShapeRegex.MatchString(fl.Field().String())
}

var shortCodeRegex = regexp.MustCompile(`^[A-Z0-9]{6}$`)

// validateShortCode kiểm tra mã booking 6 ký tự (chữ hoa + số)
func validateShortCode(fl validator.FieldLevel) bool {
	return shortCodeRegex.MatchString(fl.Field().String())
}

// validateChannelSet kiểm tra danh sách preferred channels chỉ chứa whatsapp/email
func validateChannelSet(fl validator.FieldLevel) bool {
	channels, ok := fl.Field().Interface().([]string)
	if !ok {
		return false
	}
	for _, ch := range channels {
		switch strings.ToLower(ch) {
		case "whatsapp", "email":
		default:
			return false
		}
	}
	return true
}
