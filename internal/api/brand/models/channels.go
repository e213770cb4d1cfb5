package models

import "strings"

// EffectiveChannels tính tập kênh notification hiệu lực của brand.
// PreferredChannels là nguồn sự thật; nếu rỗng thì suy từ NotifyMode legacy.
// Kết quả đã dedupe và lowercase — mọi nơi cần channel set đều gọi hàm này
// thay vì tự suy lại.
func (b *Brand) EffectiveChannels() []string {
	if len(b.PreferredChannels) > 0 {
		return dedupeChannels(b.PreferredChannels)
	}

	switch strings.ToLower(b.NotifyMode) {
	case NotifyModeWhatsApp:
		return []string{ChannelWhatsApp}
	case NotifyModeEmail:
		return []string{ChannelEmail}
	case NotifyModeBoth:
		return []string{ChannelWhatsApp, ChannelEmail}
	}
	return nil
}

// NotifyModeFor tính giá trị NotifyMode legacy từ channel set.
// Gọi mỗi lần lưu brand để giữ hai field sync (client cũ vẫn đọc NotifyMode).
func NotifyModeFor(channels []string) string {
	hasWhatsApp := false
	hasEmail := false
	for _, ch := range dedupeChannels(channels) {
		switch ch {
		case ChannelWhatsApp:
			hasWhatsApp = true
		case ChannelEmail:
			hasEmail = true
		}
	}

	switch {
	case hasWhatsApp && hasEmail:
		return NotifyModeBoth
	case hasWhatsApp:
		return NotifyModeWhatsApp
	case hasEmail:
		return NotifyModeEmail
	}
	return ""
}

// NormalizeChannels chuẩn hóa cặp (preferredChannels, notifyMode) lúc lưu brand:
// preferredChannels rỗng thì suy từ notifyMode legacy; kết quả là channel set
// đã dedupe cùng notifyMode tính lại từ chính set đó. Hàm thuần — mọi đường
// ghi brand (create lẫn update) đều đi qua đây.
func NormalizeChannels(preferred []string, notifyMode string) ([]string, string) {
	b := Brand{PreferredChannels: preferred, NotifyMode: notifyMode}
	channels := b.EffectiveChannels()
	return channels, NotifyModeFor(channels)
}

// AddressFor trả về địa chỉ đã cấu hình cho một kênh ("" nếu chưa có)
func (b *Brand) AddressFor(channel string) string {
	switch channel {
	case ChannelWhatsApp:
		return b.WhatsAppNumber
	case ChannelEmail:
		return b.Email
	}
	return ""
}

func dedupeChannels(channels []string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, ch := range channels {
		ch = strings.ToLower(strings.TrimSpace(ch))
		if ch == "" || seen[ch] {
			continue
		}
		seen[ch] = true
		out = append(out, ch)
	}
	return out
}
