// Package export renders the arrived-guests report as CSV or PDF.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/daralachab/reservation-api/internal/models"
)

type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "text/csv; charset=utf-8"
}

var header = []string{"Date", "Heure", "Nom", "Téléphone", "Email", "Personnes", "Message", "Montant (DH)"}

type Row struct {
	Reservation models.Reservation
	Amount      int
}

type Report struct {
	Title string
	Rows  []Row
	Total int
}

// Amount bills arrived guests per person. Anything else, or a non-positive
// party size, is worth nothing.
func Amount(r models.Reservation, pricePerPerson int) int {
	if st, ok := models.ParseStatus(string(r.Status)); !ok || st != models.StatusArrived {
		return 0
	}
	if r.Persons <= 0 {
		return 0
	}
	return r.Persons * pricePerPerson
}

func NewReport(restaurant string, reservations []models.Reservation, pricePerPerson int) Report {
	rep := Report{Title: "Réservations – " + restaurant}
	for _, r := range reservations {
		amount := Amount(r, pricePerPerson)
		rep.Rows = append(rep.Rows, Row{Reservation: r, Amount: amount})
		rep.Total += amount
	}
	return rep
}

// Filename is the attachment name, e.g. reservations_dar_al_achab.csv.
func Filename(restaurant string, f Format) string {
	slug := strings.Join(strings.Fields(strings.ToLower(restaurant)), "_")
	if slug == "" {
		slug = "export"
	}
	return fmt.Sprintf("reservations_%s.%s", slug, f)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// blankZero renders 0 as an empty cell.
func blankZero(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func cells(r Row) []string {
	res := r.Reservation
	return []string{
		res.Date,
		res.Time,
		res.Name,
		res.Phone,
		deref(res.Email),
		blankZero(res.Persons),
		deref(res.Message),
		blankZero(r.Amount),
	}
}

func WriteCSV(w io.Writer, rep Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rep.Rows {
		if err := cw.Write(cells(r)); err != nil {
			return err
		}
	}
	if err := cw.Write([]string{"", "", "", "", "", "", "Total", blankZero(rep.Total)}); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
