package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/barriolab/vecino/pkg/domain/types"
	"github.com/barriolab/vecino/pkg/service/search"
)

const (
	errorMessage       = "Ups, algo salió mal 😅 ¿Podés intentar de nuevo?"
	rateLimitedMessage = "Che, bajá un cambio! 😅 Mandame los mensajes de a uno y esperá la respuesta."
	resetDoneMessage   = "✅ Listo! Borré el historial.\nEmpecemos de nuevo 🔄 ¿Qué necesitás?"
	noMatchesMessage   = "No encontré nada con eso 😅 ¿Probás con otras palabras? " +
		"Por ejemplo _\"pizzería\"_, _\"farmacia\"_ o _\"plomero\"_."

	locationPinPrompt     = "Dale, mandame el 📍 pin de ubicación y te busco lo más cercano!"
	locationStoredMessage = "📍 ¡Listo! Ahora te puedo mostrar los comercios más cercanos.\n\n" +
		"¿Qué estás buscando?"
	locationSearchingMessage = "📍 ¡Ubicación recibida! Buscando los más cercanos..."

	voiceListeningMessage   = "🎤 Escuchando tu audio..."
	voiceTooLargeMessage    = "El audio es muy largo 😅 Mandame uno de menos de 10 MB o escribilo."
	voiceFailedMessage      = "No pude entender el audio 😅 ¿Podés intentar de nuevo o escribirlo?"
	voiceUnavailableMessage = "Todavía no puedo escuchar audios 😅 ¿Me lo escribís?"
)

func welcomeMessage(name string) string {
	return fmt.Sprintf(
		"¡Hola%s! 👋 Soy *Vecinito* 🏘️, tu guía de barrio.\n\n"+
			"Te ayudo a encontrar *comercios y servicios* en "+
			"*City Bell*, *Gonnet* y *Villa Elisa*.\n\n"+
			"Podés preguntarme cosas como:\n"+
			"🍕 _\"Quiero pedir pizza\"_\n"+
			"🔧 _\"Necesito un plomero urgente\"_\n"+
			"💊 _\"Farmacia abierta ahora\"_\n"+
			"⚡ _\"Electricista en Gonnet\"_\n\n"+
			"📍 *Tip:* Enviame tu ubicación y te muestro los más cercanos!\n\n"+
			"Ahora sí, *¿en qué te puedo ayudar?* 😊",
		name)
}

func startMessage(name string) string {
	return fmt.Sprintf(
		"¡Hola%s! 👋 Soy *Vecinito* 🏘️\n\n"+
			"Tu guía de comercios y servicios en:\n"+
			"📍 City Bell  📍 Gonnet  📍 Villa Elisa\n\n"+
			"*Preguntame lo que necesites:*\n"+
			"• _\"Pizzerías en City Bell\"_\n"+
			"• _\"Necesito un plomero\"_\n"+
			"• _\"Farmacia 24hs\"_\n"+
			"• _\"Electricista urgente\"_\n\n"+
			"📍 *Tip:* Enviame tu ubicación y te muestro los más cercanos!\n"+
			"🔄 Escribí *reset* para borrar el historial",
		name)
}

func greetingReply(name string) string {
	return fmt.Sprintf(
		"Hola%s! 👋 Soy *Vecinito* 🏘️\n\n"+
			"Tu asistente de barrio para encontrar comercios y servicios en "+
			"*City Bell*, *Gonnet* y *Villa Elisa*.\n\n"+
			"Preguntame lo que necesites:\n"+
			"🍕 _\"Quiero pedir pizza\"_\n"+
			"🔧 _\"Necesito un plomero urgente\"_\n"+
			"💊 _\"Farmacia abierta ahora\"_\n"+
			"⚡ _\"Electricista en Gonnet\"_\n\n"+
			"📍 También podés enviarme tu *ubicación* y te muestro lo más cercano!",
		name)
}

// zoneKeyboard is the reply keyboard offered on first contact: a location
// request button plus one button per covered zone.
func zoneKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButtonLocation("📍 Enviar ubicación"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("🏘️ City Bell"),
			tgbotapi.NewKeyboardButton("🏘️ Gonnet"),
			tgbotapi.NewKeyboardButton("🏘️ Villa Elisa"),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

// zoneButton recognizes a tap on one of the zone keyboard buttons.
func zoneButton(text string) (types.Zone, bool) {
	if !strings.HasPrefix(text, "🏘️") {
		return types.ZoneUnknown, false
	}
	name := strings.TrimSpace(strings.TrimPrefix(text, "🏘️"))
	zone, err := types.ParseZone(name)
	if err != nil || !zone.IsSet() {
		return types.ZoneUnknown, false
	}
	return zone, true
}

func isResetCommand(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "reset", "/reset", "resetear", "borrar historial":
		return true
	}
	return false
}

// locationPhrases are normalized announcements that a pin is coming. They
// are acknowledgements, not searches.
var locationPhrases = []string{
	"te paso mi ubicacion", "te mando mi ubicacion", "te comparto mi ubicacion",
	"ahi te mando la ubicacion", "ahi va mi ubicacion", "mando ubicacion",
	"te mando el pin", "te paso la ubicacion", "le mando la ubicacion",
	"te mando ubicacion", "paso ubicacion", "comparto ubicacion",
	"ahi te paso la ubicacion", "ya te mando la ubicacion",
}

func announcesLocation(text string) bool {
	norm := search.Normalize(text)
	for _, phrase := range locationPhrases {
		if strings.Contains(norm, phrase) {
			return true
		}
	}
	return false
}

func firstName(msg *tgbotapi.Message) string {
	if msg.From == nil {
		return ""
	}
	name := strings.Trim(strings.TrimSpace(msg.From.FirstName), ".-_,;:!?/\\")
	if len(name) < 2 {
		return ""
	}
	return " " + name
}
