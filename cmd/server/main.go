package main

import "leadhub/internal/app"

// @title           LeadHub API
// @version         1.0
// @description     Бэкенд воронки лидов: этапы, переходы, ремарки, назначения.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
