package i18n

var englishMessages = map[string]string{
	"site.name":                "reading.space",
	"site.tagline":             "Find your next book and plan what to read after it.",
	"nav.sign_in":              "Sign in",
	"nav.sign_out":             "Sign out",
	"nav.dashboard":            "Dashboard",
	"nav.curriculum":           "Curriculum",
	"home.title":               "Discover books",
	"home.greeting":            "Welcome back, %s.",
	"login.title":              "Sign in",
	"login.heading":            "Sign in with a link",
	"login.lead":               "We will email you a link that signs you in. No password needed.",
	"login.email":              "Email",
	"login.submit":             "Email me a link",
	"login.sent":               "If that address can sign in, a link is on its way. Check your inbox.",
	"error.email_required":     "Enter a valid email address.",
	"error.auth_unavailable":   "Sign-in is temporarily unavailable. Please try again in a moment.",
	"error.auth_unknown":       "Sign-in is temporarily unavailable. Please try again in a moment.",
	"error.auth_invalid_input": "That address cannot receive a sign-in link. Check it and try again.",
	"verify.title":             "Signing in",
	"verify.success":           "You are signed in",
	"verify.redirecting":       "Taking you to your dashboard...",
	"verify.continue":          "Continue",
	"verify.failure":           "We could not sign you in",
	"verify.missing_token":     "The link is missing its sign-in code.",
	"verify.invalid_link":      "This link is invalid or has expired.",
	"verify.request_new":       "Request a new link",
	"dashboard.title":          "Your dashboard",
	"dashboard.lead":           "Books you are reading and what comes next.",
	"curriculum.title":         "Your curriculum",
	"curriculum.lead":          "Your reading plan, one book at a time.",
	"page.signed_in_as":        "Signed in as %s",
	"error.title":              "Something went wrong",
	"error.try_again":          "Please try again.",
	"error.origin_required":    "This form expired. Reload the page and try again.",
}

var portugueseMessages = map[string]string{
	"site.name":                "reading.space",
	"site.tagline":             "Encontre seu próximo livro e planeje o que ler depois.",
	"nav.sign_in":              "Entrar",
	"nav.sign_out":             "Sair",
	"nav.dashboard":            "Painel",
	"nav.curriculum":           "Currículo",
	"home.title":               "Descubra livros",
	"home.greeting":            "Bem-vindo de volta, %s.",
	"login.title":              "Entrar",
	"login.heading":            "Entrar com um link",
	"login.lead":               "Enviaremos um link por e-mail para você entrar. Sem senha.",
	"login.email":              "E-mail",
	"login.submit":             "Enviar link",
	"login.sent":               "Se esse endereço puder entrar, um link está a caminho. Confira sua caixa de entrada.",
	"error.email_required":     "Informe um endereço de e-mail válido.",
	"error.auth_unavailable":   "O acesso está temporariamente indisponível. Tente novamente em instantes.",
	"error.auth_unknown":       "O acesso está temporariamente indisponível. Tente novamente em instantes.",
	"error.auth_invalid_input": "Esse endereço não pode receber um link de acesso. Confira e tente novamente.",
	"verify.title":             "Entrando",
	"verify.success":           "Você entrou",
	"verify.redirecting":       "Levando você ao seu painel...",
	"verify.continue":          "Continuar",
	"verify.failure":           "Não foi possível entrar",
	"verify.missing_token":     "O link não contém o código de acesso.",
	"verify.invalid_link":      "Este link é inválido ou expirou.",
	"verify.request_new":       "Pedir um novo link",
	"dashboard.title":          "Seu painel",
	"dashboard.lead":           "Livros que você está lendo e o que vem a seguir.",
	"curriculum.title":         "Seu currículo",
	"curriculum.lead":          "Seu plano de leitura, um livro de cada vez.",
	"page.signed_in_as":        "Conectado como %s",
	"error.title":              "Algo deu errado",
	"error.try_again":          "Tente novamente.",
	"error.origin_required":    "Este formulário expirou. Recarregue a página e tente novamente.",
}
