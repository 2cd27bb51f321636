package main

import (
	_ "gw-transaction-ledger/docs"
	"gw-transaction-ledger/internal/app"
	"log"
)

// @title           Transaction Ledger API
// @version         1.0
// @description     API для загрузки CSV-файлов с транзакциями, просмотра реестра и отчётов по покупателям и товарам
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app, err := app.NewApp()
	if err != nil {
		log.Fatalf("Ошибка создания приложения: %v", err)
	}

	app.BuildDirectoryLayer()
	app.BuildTransactionLayer()
	app.BuildReportLayer()

	if err := app.Run(); err != nil {
		log.Fatalf("Ошибка при работе приложения: %v", err)
	}
}
