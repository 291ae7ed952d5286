package main

//go:generate swag init -g cmd/server/main.go -o docs

// @title           Trade Signal Settlement API
// @version         0.1.0
// @description     Signal lifecycle, settlement, and expiry reconciliation.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
