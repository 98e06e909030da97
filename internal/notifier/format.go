package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/daralachab/reservation-api/internal/models"
)

const (
	placeholderMissing = "N/A"
	placeholderEmail   = "Non fourni"
	placeholderMessage = "Aucun message"
)

func orPlaceholder(s *string, placeholder string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return placeholder
	}
	return *s
}

func orMissing(s string) string {
	if s == "" {
		return placeholderMissing
	}
	return s
}

func staffSubject(restaurant string) string {
	return "Nouvelle Réservation – " + restaurant
}

func staffEmailBody(r models.Reservation, restaurant string) string {
	var b strings.Builder
	b.WriteString("Nouvelle réservation reçue :\n\n")
	fmt.Fprintf(&b, "Nom : %s\n", orMissing(r.Name))
	fmt.Fprintf(&b, "Téléphone : %s\n", orMissing(r.Phone))
	fmt.Fprintf(&b, "Email : %s\n", orPlaceholder(r.Email, placeholderEmail))
	fmt.Fprintf(&b, "Date : %s\n", orMissing(r.Date))
	fmt.Fprintf(&b, "Heure : %s\n", orMissing(r.Time))
	fmt.Fprintf(&b, "Nombre de personnes : %d\n", r.Persons)
	fmt.Fprintf(&b, "Message : %s\n", orPlaceholder(r.Message, placeholderMessage))
	fmt.Fprintf(&b, "\n---\nRestaurant %s\n", restaurant)
	return b.String()
}

func customerSubject(restaurant string) string {
	return "Confirmation de Réservation – " + restaurant
}

func customerEmailBody(r models.Reservation, restaurant, phone string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Bonjour %s,\n\n", r.Name)
	fmt.Fprintf(&b, "Merci pour votre réservation au Restaurant %s.\n\n", restaurant)
	b.WriteString("Détails de votre réservation :\n")
	fmt.Fprintf(&b, "Date : %s\n", orMissing(r.Date))
	fmt.Fprintf(&b, "Heure : %s\n", orMissing(r.Time))
	fmt.Fprintf(&b, "Nombre de personnes : %d\n\n", r.Persons)
	b.WriteString("Nous avons hâte de vous accueillir !\n\n")
	if phone != "" {
		fmt.Fprintf(&b, "Pour toute modification ou annulation, n'hésitez pas à nous contacter au %s.\n\n", phone)
	}
	fmt.Fprintf(&b, "Cordialement,\nL'équipe %s\n", restaurant)
	return b.String()
}

// displayDate turns YYYY-MM-DD into DD/MM/YYYY and leaves anything else as is.
func displayDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("02/01/2006")
}

// smsBody is a single line; SMS segments are short.
func smsBody(r models.Reservation) string {
	return fmt.Sprintf("Nouvelle réservation: %s %s - %d pers - %s (%s)",
		displayDate(orMissing(r.Date)), orMissing(r.Time), r.Persons, orMissing(r.Name), orMissing(r.Phone))
}

func discordMessage(r models.Reservation) string {
	noteStr := ""
	if r.Message != nil && strings.TrimSpace(*r.Message) != "" {
		noteStr = fmt.Sprintf("\n**Message:** %s", *r.Message)
	}
	return fmt.Sprintf("🍽️ **Nouvelle réservation**\n**Nom:** %s (%s)\n**Date:** %s %s\n**Personnes:** %d\n**Email:** %s%s",
		r.Name,
		r.Phone,
		displayDate(r.Date),
		r.Time,
		r.Persons,
		orPlaceholder(r.Email, placeholderEmail),
		noteStr,
	)
}
