// Package responder maps classification results to reply text.
package responder

import (
	"fmt"

	"tiktok-reply-bot/classifier"
)

const fallbackTemplate = "@%s Terima kasih atas komentarnya!"

var categoryTemplates = map[classifier.Category]string{
	classifier.CategoryPrice:    "@%s Terima kasih sudah bertanya! Info harga lengkap ada di keranjang kuning ya 🛒",
	classifier.CategoryHours:    "@%s Kami buka setiap hari pukul 09.00-21.00 WIB ya!",
	classifier.CategoryHowToBuy: "@%s Cara belinya gampang: klik keranjang kuning di video ini, pilih produk, lalu checkout ya!",
}

var sentimentTemplates = map[int]string{
	classifier.SentimentNegative: "@%s Mohon maaf atas ketidaknyamanannya, silakan DM kami untuk bantuan ya 🙏",
	classifier.SentimentNeutral:  "@%s Terima kasih sudah mampir! Jangan lupa cek produk kami ya 😊",
	classifier.SentimentPositive: "@%s Wah, terima kasih banyak! Senang kamu suka 🥰",
}

// Generate returns the reply text for a classification. It is a pure
// lookup: any combination without a template falls back to a generic
// thank-you.
func Generate(category classifier.Category, sentiment int, author string) string {
	if category == classifier.CategorySentiment {
		if tmpl, ok := sentimentTemplates[sentiment]; ok {
			return fmt.Sprintf(tmpl, author)
		}
		return fmt.Sprintf(fallbackTemplate, author)
	}

	if tmpl, ok := categoryTemplates[category]; ok {
		return fmt.Sprintf(tmpl, author)
	}
	return fmt.Sprintf(fallbackTemplate, author)
}
