package types

// ContextKey - тип ключей контекста команд.
type ContextKey string

// ClientAppKey - ключ, под которым root-команда кладет *client.App
// в контекст для подкоманд.
const ClientAppKey ContextKey = "clientApp"
