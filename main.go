package main

import "github.com/o-vuong/doggo-hotel/commands"

// @title                      Doggo Hotel API
// @version                    1.0
// @description                Kennel booking, payments and overstay handling.
// @BasePath                   /api/v1
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	commands.Execute()
}
