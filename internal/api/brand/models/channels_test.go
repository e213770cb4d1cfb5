// Package models - Test mapping kênh: EffectiveChannels, NotifyModeFor, NormalizeChannels.
package models

import (
	"reflect"
	"testing"
)

func TestEffectiveChannels_PreferredWins(t *testing.T) {
	b := &Brand{
		PreferredChannels: []string{"email"},
		NotifyMode:        NotifyModeBoth, // legacy nói both nhưng preferred là nguồn sự thật
	}
	got := b.EffectiveChannels()
	if !reflect.DeepEqual(got, []string{ChannelEmail}) {
		t.Errorf("PreferredChannels phải thắng NotifyMode legacy, got %v", got)
	}
}

func TestEffectiveChannels_LegacyMapping(t *testing.T) {
	cases := []struct {
		mode string
		want []string
	}{
		{NotifyModeWhatsApp, []string{ChannelWhatsApp}},
		{NotifyModeEmail, []string{ChannelEmail}},
		{NotifyModeBoth, []string{ChannelWhatsApp, ChannelEmail}},
		{"", nil},
	}
	for _, c := range cases {
		b := &Brand{NotifyMode: c.mode}
		if got := b.EffectiveChannels(); !reflect.DeepEqual(got, c.want) {
			t.Errorf("NotifyMode %q: got %v, want %v", c.mode, got, c.want)
		}
	}
}

func TestEffectiveChannels_DedupeAndLowercase(t *testing.T) {
	b := &Brand{PreferredChannels: []string{"WhatsApp", "whatsapp", " EMAIL "}}
	got := b.EffectiveChannels()
	if !reflect.DeepEqual(got, []string{ChannelWhatsApp, ChannelEmail}) {
		t.Errorf("Channel set phải dedupe + lowercase, got %v", got)
	}
}

func TestNotifyModeFor(t *testing.T) {
	cases := []struct {
		channels []string
		want     string
	}{
		{[]string{"whatsapp"}, NotifyModeWhatsApp},
		{[]string{"email"}, NotifyModeEmail},
		{[]string{"whatsapp", "email"}, NotifyModeBoth},
		{[]string{"email", "whatsapp"}, NotifyModeBoth},
		{nil, ""},
	}
	for _, c := range cases {
		if got := NotifyModeFor(c.channels); got != c.want {
			t.Errorf("NotifyModeFor(%v) = %q, want %q", c.channels, got, c.want)
		}
	}
}

func TestNormalizeChannels_RoundTrip(t *testing.T) {
	// Legacy brand chỉ có notifyMode: normalize suy ra set rồi tính lại mode
	channels, mode := NormalizeChannels(nil, NotifyModeBoth)
	if !reflect.DeepEqual(channels, []string{ChannelWhatsApp, ChannelEmail}) {
		t.Errorf("NormalizeChannels(nil, both) channels = %v", channels)
	}
	if mode != NotifyModeBoth {
		t.Errorf("NormalizeChannels(nil, both) mode = %q", mode)
	}

	// Brand mới: preferred thắng, mode legacy được tính lại cho sync
	channels, mode = NormalizeChannels([]string{"email"}, NotifyModeWhatsApp)
	if !reflect.DeepEqual(channels, []string{ChannelEmail}) {
		t.Errorf("NormalizeChannels([email], whatsapp) channels = %v", channels)
	}
	if mode != NotifyModeEmail {
		t.Errorf("NotifyMode phải tính lại từ set, got %q", mode)
	}
}

func TestAddressFor(t *testing.T) {
	b := &Brand{WhatsAppNumber: "+84987654321", Email: "support@brand.vn"}
	if got := b.AddressFor(ChannelWhatsApp); got != "+84987654321" {
		t.Errorf("AddressFor(whatsapp) = %q", got)
	}
	if got := b.AddressFor(ChannelEmail); got != "support@brand.vn" {
		t.Errorf("AddressFor(email) = %q", got)
	}
	if got := b.AddressFor("sms"); got != "" {
		t.Errorf("Kênh không hỗ trợ phải trả về rỗng, got %q", got)
	}
}
