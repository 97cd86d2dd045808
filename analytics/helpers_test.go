package analytics

import "time"

var testNow = time.Date(2026, time.October, 14, 15, 30, 0, 0, time.UTC)

func payment(id, status string, amount float64, createdAt string) *PaymentRecord {
	return &PaymentRecord{
		ID:            ID(id),
		TransactionID: "TXN-" + id,
		Amount:        Amount(amount),
		Status:        status,
		CreatedAt:     createdAt,
	}
}

func (p *PaymentRecord) forCourse(id, title string) *PaymentRecord {
	p.Course = &CourseRef{ID: ID(id), Title: title}
	return p
}

func (p *PaymentRecord) byUser(id string) *PaymentRecord {
	p.User = &UserRef{ID: ID(id), Name: "Student " + id}
	return p
}

func (p *PaymentRecord) via(method, card string) *PaymentRecord {
	p.PaymentMethod = method
	p.CardType = card
	return p
}
