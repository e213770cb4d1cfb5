// Package mailhdl - Handler webhook email inbound.
package mailhdl

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v3"

	basehdl "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/base/handler"
	maildto "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/mail/dto"
	mailsvc "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/mail/service"
	"github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/common"
	"github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/global"
)

// MailHandler xử lý webhook email-reply từ provider.
type MailHandler struct {
	MailService *mailsvc.MailService
}

// NewMailHandler tạo MailHandler mới.
func NewMailHandler() (*MailHandler, error) {
	svc, err := mailsvc.NewMailService()
	if err != nil {
		return nil, fmt.Errorf("tạo MailService: %w", err)
	}
	return &MailHandler{MailService: svc}, nil
}

// HandleEmailReply xử lý POST /webhooks/email-reply.
// Provider có thể gửi một object hoặc một mảng object (lấy phần tử đầu).
// Validate fail → 400, KHÔNG lưu bản ghi nào. Qua validate thì mọi nhánh
// đều persist, kể cả khi không link được booking.
func (h *MailHandler) HandleEmailReply(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		input, err := parseInbound(c.Body())
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		input.Normalize()
		if err := global.Validate.Struct(input); err != nil {
			basehdl.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationInput,
				"Payload email thiếu from/subject hoặc from sai định dạng email",
				common.StatusBadRequest,
				err.Error(),
			))
			return nil
		}

		result, err := h.MailService.ProcessInbound(c.Context(), input)
		basehdl.HandleResponse(c, result, err)
		return nil
	})
}

// parseInbound chấp nhận cả `{...}` lẫn `[{...}, ...]` (lấy phần tử đầu)
func parseInbound(body []byte) (*maildto.EmailReplyInput, error) {
	var input maildto.EmailReplyInput
	if err := json.Unmarshal(body, &input); err == nil {
		return &input, nil
	}

	var batch []maildto.EmailReplyInput
	if err := json.Unmarshal(body, &batch); err != nil || len(batch) == 0 {
		return nil, common.NewError(
			common.ErrCodeValidationFormat,
			"Dữ liệu gửi lên không đúng định dạng JSON",
			common.StatusBadRequest,
			nil,
		)
	}
	return &batch[0], nil
}
