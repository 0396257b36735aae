package main

import (
	"bank-cards-api/app"
)

// @title           Bank Cards API
// @version         1.0
// @description     Card-account ledger with encrypted card numbers and atomic transfers between own cards.

// @host      localhost:8080
// @BasePath  /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
