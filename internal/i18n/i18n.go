package i18n

import (
	"context"
	"strings"
)

type langKey struct{}

// DefaultLang is used when no preference can be resolved.
const DefaultLang = "pt"

// WithLang stores the resolved language in context.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langKey{}, lang)
}

// LangFromContext retrieves the language, defaulting to pt.
func LangFromContext(ctx context.Context) string {
	if l, ok := ctx.Value(langKey{}).(string); ok && l != "" {
		return l
	}
	return DefaultLang
}

// DetectLanguage picks a supported language from an Accept-Language header.
func DetectLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		code := strings.ToLower(strings.TrimSpace(strings.SplitN(part, ";", 2)[0]))
		if i := strings.Index(code, "-"); i > 0 {
			code = code[:i]
		}
		switch code {
		case "en", "pt":
			return code
		}
	}
	return DefaultLang
}

var messages = map[string]map[string]string{
	"pt": {
		"app_title":            "Guia do Maculado",
		"login":                "Entrar",
		"signup":               "Cadastre-se",
		"logout":               "Sair da Conta",
		"login_failed":         "Usuário ou senha inválidos. Tente novamente.",
		"signup_ok":            "Conta criada com sucesso! Faça login.",
		"duplicate_login":      "Nome de usuário já existe.",
		"password_mismatch":    "As senhas não coincidem. Verifique e tente novamente.",
		"required":             "Preencha todos os campos.",
		"out_of_range":         "Valor fora do intervalo permitido.",
		"characters":           "Personagens",
		"character_created":    "Cadastro realizado com sucesso!",
		"character_updated":    "Alterações salvas com sucesso.",
		"character_deleted":    "Jogador excluído com sucesso.",
		"no_characters":        "Nenhum personagem cadastrado.",
		"journey":              "Jornada do Personagem",
		"journey_active":       "Jornada ativa para",
		"boss_defeated":        "Boss marcado como exterminado.",
		"region_defeated":      "Todos os bosses da localidade foram marcados como exterminados.",
		"all_defeated":         "Todos os bosses deste personagem já foram exterminados!",
		"bosses_total":         "Total de Bosses Únicos",
		"bosses_alive":         "Bosses a sua espera",
		"bosses_defeated":      "Bosses Exterminados",
		"boss_list":            "Lista de Bosses",
		"boss_updated":         "Dados atualizados com sucesso.",
		"build":                "Criação de Build",
		"build_saved":          "Build salva com sucesso!",
		"weapons_saved":        "Armas atribuídas à build com sucesso!",
		"weapons":              "Base de Armas Disponíveis",
		"dashboard":            "Painel",
		"welcome":              "Bem-vindo(a), Maculado(a)",
		"all_in_region_option": "Todos os Boss da Localidade",
	},
	"en": {
		"app_title":            "Tarnished's Guide",
		"login":                "Log in",
		"signup":               "Sign up",
		"logout":               "Log out",
		"login_failed":         "Invalid username or password. Try again.",
		"signup_ok":            "Account created. Please log in.",
		"duplicate_login":      "Username already exists.",
		"password_mismatch":    "Passwords do not match.",
		"required":             "Please fill in all fields.",
		"out_of_range":         "Value out of allowed range.",
		"characters":           "Characters",
		"character_created":    "Character registered.",
		"character_updated":    "Changes saved.",
		"character_deleted":    "Character deleted.",
		"no_characters":        "No characters registered.",
		"journey":              "Character Journey",
		"journey_active":       "Journey active for",
		"boss_defeated":        "Boss marked as defeated.",
		"region_defeated":      "Every boss of the region was marked as defeated.",
		"all_defeated":         "Every boss of this character is already defeated!",
		"bosses_total":         "Distinct Bosses",
		"bosses_alive":         "Bosses Awaiting You",
		"bosses_defeated":      "Bosses Defeated",
		"boss_list":            "Boss List",
		"boss_updated":         "Catalog entry updated.",
		"build":                "Build Workshop",
		"build_saved":          "Build saved.",
		"weapons_saved":        "Weapons assigned to the build.",
		"weapons":              "Weapon Catalog",
		"dashboard":            "Dashboard",
		"welcome":              "Welcome, Tarnished",
		"all_in_region_option": "All bosses of the region",
	},
}

// T translates a message code. Unknown languages fall back to pt; unknown
// codes fall back to the code itself so missing entries stay visible.
func T(lang, code string) string {
	if m, ok := messages[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := messages[DefaultLang][code]; ok {
		return s
	}
	return code
}
