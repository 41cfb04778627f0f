package i18n

import (
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/jeandeaual/go-locale"
)

var (
	mu   sync.RWMutex
	lang = "en"
)

var supported = []string{"pt", "es", "ru"}

var translations = map[string]map[string]string{
	"Builder": {
		"pt": "Montagem",
		"es": "Editor",
		"ru": "Конструктор",
	},
	"Library": {
		"pt": "Biblioteca",
		"es": "Biblioteca",
		"ru": "Библиотека",
	},
	"Run": {
		"pt": "Executar",
		"es": "Ejecutar",
		"ru": "Запуск",
	},
	"ss, mm:ss or hh:mm:ss": {
		"pt": "ss, mm:ss ou hh:mm:ss",
		"es": "ss, mm:ss o hh:mm:ss",
		"ru": "сс, мм:сс или чч:мм:сс",
	},
	"Add wait": {
		"pt": "Adicionar espera",
		"es": "Añadir espera",
		"ru": "Добавить паузу",
	},
	"Add repeat": {
		"pt": "Adicionar repetição",
		"es": "Añadir repetición",
		"ru": "Добавить повтор",
	},
	"Wait %s": {
		"pt": "Esperar %s",
		"es": "Esperar %s",
		"ru": "Ждать %s",
	},
	"Repeat %d×": {
		"pt": "Repetir %d×",
		"es": "Repetir %d×",
		"ru": "Повторить %d×",
	},
	"Edit": {
		"pt": "Editar",
		"es": "Editar",
		"ru": "Изменить",
	},
	"Value": {
		"pt": "Valor",
		"es": "Valor",
		"ru": "Значение",
	},
	"Clear": {
		"pt": "Limpar",
		"es": "Limpiar",
		"ru": "Очистить",
	},
	"Total %s in %d steps": {
		"pt": "Total %s em %d etapas",
		"es": "Total %s en %d pasos",
		"ru": "Всего %s, шагов: %d",
	},
	"Save as…": {
		"pt": "Salvar como…",
		"es": "Guardar como…",
		"ru": "Сохранить как…",
	},
	"Name": {
		"pt": "Nome",
		"es": "Nombre",
		"ru": "Название",
	},
	"Load": {
		"pt": "Carregar",
		"es": "Cargar",
		"ru": "Загрузить",
	},
	"Update": {
		"pt": "Atualizar",
		"es": "Actualizar",
		"ru": "Обновить",
	},
	"Rename": {
		"pt": "Renomear",
		"es": "Renombrar",
		"ru": "Переименовать",
	},
	"Delete": {
		"pt": "Excluir",
		"es": "Eliminar",
		"ru": "Удалить",
	},
	"Delete %q?": {
		"pt": "Excluir %q?",
		"es": "¿Eliminar %q?",
		"ru": "Удалить %q?",
	},
	"Presets": {
		"pt": "Predefinições",
		"es": "Predefinidos",
		"ru": "Шаблоны",
	},
	"Saved timers": {
		"pt": "Timers salvos",
		"es": "Temporizadores guardados",
		"ru": "Сохранённые таймеры",
	},
	"Start": {
		"pt": "Iniciar",
		"es": "Iniciar",
		"ru": "Старт",
	},
	"Stop": {
		"pt": "Parar",
		"es": "Parar",
		"ru": "Стоп",
	},
	"Stopped": {
		"pt": "Parado",
		"es": "Detenido",
		"ru": "Остановлен",
	},
	"Set current": {
		"pt": "Ajustar atual",
		"es": "Ajustar actual",
		"ru": "Изменить текущий",
	},
	"Step %d of %d": {
		"pt": "Etapa %d de %d",
		"es": "Paso %d de %d",
		"ru": "Шаг %d из %d",
	},
	"Finished": {
		"pt": "Concluído",
		"es": "Terminado",
		"ru": "Готово",
	},
	"Ready": {
		"pt": "Pronto",
		"es": "Listo",
		"ru": "Готов",
	},
	"Cancel": {
		"pt": "Cancelar",
		"es": "Cancelar",
		"ru": "Отмена",
	},
	"OK": {
		"pt": "OK",
		"es": "Aceptar",
		"ru": "ОК",
	},
}

func init() {
	// Check for override environment variable
	if forced := strings.TrimSpace(os.Getenv("INTERVALS_LANG")); forced != "" {
		SetLang(forced)
		return
	}

	userLocales, err := locale.GetLocales()
	if err != nil || len(userLocales) == 0 {
		slog.Debug("could not get user locale, defaulting to english", "error", err)
		return
	}
	SetLang(userLocales[0])
}

// SetLang selects the language by locale prefix ("pt_BR", "es-ES", "ru").
// Unsupported languages fall back to English.
func SetLang(l string) {
	l = strings.ToLower(strings.TrimSpace(l))
	chosen := "en"
	for _, s := range supported {
		if strings.HasPrefix(l, s) {
			chosen = s
			break
		}
	}
	mu.Lock()
	lang = chosen
	mu.Unlock()
}

// T returns the translation of key, or key itself.
func T(key string) string {
	mu.RLock()
	defer mu.RUnlock()
	if translated, ok := translations[key][lang]; ok {
		return translated
	}
	return key
}

// GetLang returns the active language code.
func GetLang() string {
	mu.RLock()
	defer mu.RUnlock()
	return lang
}
