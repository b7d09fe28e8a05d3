package main

import (
	"log"
	"net/http"
	"os"

	"github.com/friendsapp/apiv1/dbhelper"
	"github.com/friendsapp/apiv1/mailer"
	"github.com/friendsapp/apiv1/routes"
	"github.com/friendsapp/apiv1/utils"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

func main() {
	// Setting up environment variables
	err := godotenv.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := utils.ValidateTokenConfig(); err != nil {
		log.Fatal(err)
	}
	// Setting up logs
	file, err := os.OpenFile("logs.txt", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatal(err)
	}
	log.SetOutput(file)
	// Setting up database
	err = dbhelper.OpenDB()
	if err != nil {
		log.Fatal(err)
	}
	err = dbhelper.InitDB()
	if err != nil {
		log.Fatal(err)
	}
	// Opening the webserver
	r := mux.NewRouter()
	r.StrictSlash(true)
	routes.CreateRoutes(r, mailer.NewSMTPFromEnv())
	http.ListenAndServe(":5005", r)
}
