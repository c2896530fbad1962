package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

// Apenas minúsculas e dígitos: o id vira sufixo de nome de tabela
const characters = "abcdefghijklmnopqrstuvwxyz0123456789"

func GenerateID() (string, error) {
	return gonanoid.Generate(characters, 8)
}
