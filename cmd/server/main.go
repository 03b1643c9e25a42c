package main

import "orbithr/internal/app/server"

func main() {
	server.Run()
}
