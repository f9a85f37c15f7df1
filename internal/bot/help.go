package bot

import "datatalk/internal/nlu"

// HelpText is the usage message rendered for help turns. Markdown, in
// Spanish, listing the utterances the bot understands.
const HelpText = "Hola, soy Lucero. Hoy te ayudo con facturación.\n\n" +
	"**Puedo ayudarte con:**\n" +
	"• `facturas que vencen este mes`\n" +
	"• `facturas vencidas este mes`\n" +
	"• `facturas vencidas hoy`\n" +
	"• `facturas que vencen en las próximas 2 semanas`\n" +
	"• `top clientes por saldo vencido`\n" +
	"_También entiendo refinamientos: `las del 13`, `y de todo el mes?`, `próximas dos semanas`._"

// replyTitles gives each data intent a short Spanish title the renderer
// places above the result table.
var replyTitles = map[nlu.Intent]string{
	nlu.IntentInvoicesDueThisMonth: "Facturas por vencer este mes",
	nlu.IntentInvoicesDueNextDays:  "Facturas por vencer en los próximos días",
	nlu.IntentOverdueThisMonth:     "Facturas vencidas este mes",
	nlu.IntentOverdueToday:         "Facturas vencidas al día de hoy",
	nlu.IntentTopClientsOverdue:    "Top clientes por saldo vencido",
}

func replyFor(intent nlu.Intent) string {
	if title, ok := replyTitles[intent]; ok {
		return title
	}
	return HelpText
}
