package bookingsvc

import (
	"crypto/rand"
)

// shortCodeCharset: chữ hoa + số, đủ 36^6 ≈ 2.1 tỷ tổ hợp
const shortCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// shortCodeLength là độ dài mã booking
const shortCodeLength = 6

// maxShortCodeAttempts là số lần thử sinh mã trước khi bỏ cuộc.
// Đụng độ 5 lần liên tiếp gần như chắc chắn là sự cố hệ thống chứ
// không phải xui — lúc đó fail hẳn thay vì loop.
const maxShortCodeAttempts = 5

// GenerateShortCode sinh một mã booking 6 ký tự ngẫu nhiên.
// Chỉ sinh — việc kiểm tra trùng với DB nằm ở Create.
func GenerateShortCode() string {
	buf := make([]byte, shortCodeLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand chỉ fail khi OS entropy hỏng; panic để GoProtect
		// hoặc SafeHandler bắt thay vì trả mã rỗng
		panic(err)
	}
	code := make([]byte, shortCodeLength)
	for i, b := range buf {
		code[i] = shortCodeCharset[int(b)%len(shortCodeCharset)]
	}
	return string(code)
}
