package payment

import "strings"

var InstructionMap = map[Method][]string{
	MethodCard: {
		"Enter your card number, the name on the card, expiry date and CVV",
		"Check that the details are correct",
		"Confirm the payment of {{amount}}",
	},
	MethodWallet: {
		"Choose your on-device wallet",
		"Approve the payment of {{amount}} on your device",
	},
	MethodQR: {
		"Open your banking app and choose Scan to Pay",
		"Scan the QR code with reference {{reference}}",
		"Check the amount {{amount}} and confirm",
		"Return to this page and place your order",
	},
}

func GetInstructions(method Method) []string {
	if steps, ok := InstructionMap[method]; ok {
		return steps
	}

	return []string{
		"Follow the payment instructions shown on this page",
	}
}

type InstructionVars map[string]string

func InjectVariables(
	steps []string,
	vars InstructionVars,
) []string {
	result := make([]string, 0, len(steps))

	for _, step := range steps {
		updated := step
		for key, value := range vars {
			updated = strings.ReplaceAll(
				updated,
				"{{"+key+"}}",
				value,
			)
		}
		result = append(result, updated)
	}

	return result
}
