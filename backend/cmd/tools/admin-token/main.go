package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/itchan-dev/chanengine/shared/config"
	"github.com/itchan-dev/chanengine/shared/jwt"
)

func main() {
	var (
		configFolder string
		name         string
		ttl          time.Duration
	)
	flag.StringVar(&configFolder, "config_folder", "backend/config", "path to folder with configs")
	flag.StringVar(&name, "name", "admin", "moderator name stored in the token")
	flag.DurationVar(&ttl, "ttl", 30*24*time.Hour, "token lifetime")
	flag.Parse()

	cfg := config.MustLoad(configFolder)
	token, err := jwt.New(cfg.JwtKey(), ttl).NewToken(jwt.Moderator{Name: name, Admin: true})
	if err != nil {
		log.Fatalf("Failed to mint admin token: %v", err)
	}

	fmt.Println("=================================================")
	fmt.Println("  Admin token")
	fmt.Println("=================================================")
	fmt.Println()
	fmt.Println(token)
	fmt.Println()
	fmt.Printf("Send it as \"Authorization: Bearer <token>\". Expires in %s.\n", ttl)
	fmt.Println("=================================================")
}
