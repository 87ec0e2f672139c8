// models.go
package model

// DateLayout es el formato de fecha guardado en los documentos de órdenes.
const DateLayout = "2006-01-02 15:04:05"

type User struct {
	Email        string `bson:"email" json:"email"`
	FullName     string `bson:"full_name" json:"full_name"`
	PasswordHash string `bson:"password" json:"-"`
	PhoneNumber  string `bson:"phone_number" json:"phone_number"`
}

type Order struct {
	TrackingID    string   `bson:"tracking_id" json:"tracking_id"`
	OwnerEmail    string   `bson:"owner_email" json:"owner_email"`
	Description   *string  `bson:"description" json:"description"`
	Status        Status   `bson:"status" json:"status"`
	CreatedDate   string   `bson:"date" json:"date"`
	DeliveredDate *string  `bson:"delivered_date" json:"delivered_date"`
	OrderHistory  []string `bson:"order_history" json:"order_history"`
}

// OrderFields son los campos que una actualización reemplaza en bloque.
type OrderFields struct {
	Status        Status   `bson:"status"`
	OrderHistory  []string `bson:"order_history"`
	DeliveredDate *string  `bson:"delivered_date"`
}
