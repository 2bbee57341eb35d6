package entity

type Product struct {
	ID    string
	Title string
}
