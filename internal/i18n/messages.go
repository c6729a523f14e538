// Package i18n holds the user-facing message catalog for recommendation
// failures. The upstream service's errors are technical; what reaches the
// view is one of these localized strings, selected by Accept-Language.
//
// Only English and Spanish are registered. Unknown languages fall back to
// English via the matcher.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys. Handlers and services refer to these constants, never to the
// literal strings, so the catalog stays the single source of truth.
const (
	KeyUserNotInModel     = "recommendations.user_not_in_model"
	KeyServiceUnreachable = "recommendations.service_unreachable"
	KeyServiceError       = "recommendations.service_error"
	KeyUnexpectedError    = "recommendations.unexpected_error"
	KeyRetrainQueued      = "retrain.queued"
	KeyRetrainEnqueueFail = "retrain.enqueue_failed"
	KeyInteractionSaved   = "interactions.saved"
)

var matcher = language.NewMatcher([]language.Tag{
	language.English, // first entry is the fallback
	language.Spanish,
})

func init() {
	for _, e := range []struct {
		key, en, es string
	}{
		{
			key: KeyUserNotInModel,
			en:  "Your user is not in the recommendation model yet. Please record a few interactions first.",
			es:  "Tu usuario aún no está en el modelo de recomendaciones. Por favor, realiza algunas interacciones primero.",
		},
		{
			key: KeyServiceUnreachable,
			en:  "Could not connect to the recommendation service. Verify that the service is running.",
			es:  "No se pudo conectar con el servicio de recomendaciones. Verifique que el servicio esté ejecutándose.",
		},
		{
			key: KeyServiceError,
			en:  "Unknown error while fetching recommendations",
			es:  "Error desconocido al obtener recomendaciones",
		},
		{
			key: KeyUnexpectedError,
			en:  "Unexpected error: %s",
			es:  "Error inesperado: %s",
		},
		{
			key: KeyRetrainQueued,
			en:  "Retraining started in the background. The process may take several minutes.",
			es:  "Reentrenamiento iniciado en segundo plano. El proceso puede tardar varios minutos.",
		},
		{
			key: KeyRetrainEnqueueFail,
			en:  "Failed to start retraining",
			es:  "Error al iniciar el reentrenamiento",
		},
		{
			key: KeyInteractionSaved,
			en:  "Interaction recorded successfully",
			es:  "Interacción registrada exitosamente",
		},
	} {
		_ = message.SetString(language.English, e.key, e.en)
		_ = message.SetString(language.Spanish, e.key, e.es)
	}
}

// Printer returns a message printer for the best match of the given
// Accept-Language header value. An empty or unparseable value yields English.
func Printer(acceptLanguage string) *message.Printer {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return message.NewPrinter(language.English)
	}
	tag, _, _ := matcher.Match(tags...)
	return message.NewPrinter(tag)
}
