package model

// Customer is a backend "cliente" record.
type Customer struct {
	ID             int     `json:"pk_id_cliente"`
	FirstName      string  `json:"primer_nombre"`
	MiddleName     *string `json:"segundo_nombre,omitempty"`
	LastName       string  `json:"primer_apellido"`
	SecondLastName *string `json:"segundo_apellido,omitempty"`
	BirthDate      string  `json:"fecha_nac"`
	NationalID     string  `json:"cedula"`
	Email          string  `json:"correo"`
	IsAdmin        bool    `json:"es_administrador"`
}

func (c Customer) DisplayName() string {
	return c.FirstName + " " + c.LastName
}

// NewCustomer is the payload for both POST /clientes and POST /auth/register.
type NewCustomer struct {
	FirstName      string  `json:"primer_nombre"`
	MiddleName     *string `json:"segundo_nombre,omitempty"`
	LastName       string  `json:"primer_apellido"`
	SecondLastName *string `json:"segundo_apellido,omitempty"`
	BirthDate      string  `json:"fecha_nac"`
	NationalID     string  `json:"cedula"`
	Email          string  `json:"correo"`
	Password       string  `json:"contrasena"`
}

// MinPasswordLength mirrors the backend's validation on contrasena.
const MinPasswordLength = 6

// User is the identity returned by GET /auth/me.
type User struct {
	ID        int    `json:"pk_id_cliente"`
	Email     string `json:"correo"`
	FirstName string `json:"primer_nombre"`
	LastName  string `json:"primer_apellido"`
}

type Credentials struct {
	Email    string `json:"correo"`
	Password string `json:"contrasena"`
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type AdminFlag struct {
	IsAdmin bool `json:"es_administrador"`
}
