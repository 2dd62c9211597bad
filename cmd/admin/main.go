// Command admin is the operator CLI for the roulette service.
package main

import (
	"log"
)

func main() {
	if err := Execute(); err != nil {
		log.Fatal(err)
	}
}
