package main

import "github.com/sahiltiwari-png/guccc-hrms/internal/app/server"

func main() {
	server.Run()
}
