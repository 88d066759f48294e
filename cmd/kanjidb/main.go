package main

import (
	"log"
	"os"
)

func main() {
	log.SetFlags(0)
	if err := newApp().Run(os.Args); err != nil {
		log.Fatalln(err)
	}
}
