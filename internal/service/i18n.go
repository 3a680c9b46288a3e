package service

import (
	"sync/atomic"

	"campanario/internal/models"
)

// fallbackLanguage is consulted when a key is missing from the current language.
const fallbackLanguage = models.LangES

// catalog holds only the messages the gateway itself produces.
var catalog = map[models.Language]map[string]string{
	models.LangES: {
		"conectado":              "Conectado al campanario",
		"conexion_perdida":       "Conexión perdida, reintentando...",
		"sin_conexion":           "No hay conexión con el campanario",
		"solicitando_alarmas":    "Solicitando alarmas...",
		"alarmas_cargadas":       "Alarmas cargadas",
		"procesando":             "Procesando...",
		"alarma_creada":          "Alarma creada correctamente",
		"alarma_modificada":      "Alarma modificada correctamente",
		"alarma_eliminada":       "Alarma eliminada correctamente",
		"alarma_habilitada":      "Alarma habilitada",
		"alarma_deshabilitada":   "Alarma deshabilitada",
		"alarma_actualizada":     "Alarma actualizada",
		"editando_alarma":        "Editando alarma",
		"confirmar_eliminar":     "¿Eliminar la alarma?",
		"error_datos_alarmas":    "Error al leer las alarmas",
		"nombre_obligatorio":     "El nombre es obligatorio",
		"nombre_largo":           "El nombre es demasiado largo",
		"dia_invalido":           "Día no válido",
		"hora_invalida":          "Hora no válida (0-23)",
		"minuto_invalido":        "Minuto no válido (0-59)",
		"duracion_invalida":      "Duración no válida (0-120)",
		"accion_invalida":        "Acción no válida",
		"campanas_protegidas":    "Campanas protegidas, espere",
		"confirmar_parar":        "¿Detener la secuencia en curso?",
		"calefaccion_error":      "No se pudo encender la calefacción",
		"limite_minutos":         "Máximo 120 minutos",
		"pin_incorrecto":         "PIN incorrecto",
		"pin_correcto":           "PIN correcto",
		"config_guardada":        "Configuración guardada",
		"nombre_dispositivo":     "El nombre del dispositivo no puede estar vacío",
		"confirmar_reinicio":     "¿Reiniciar el sistema?",
		"reiniciando":            "Reiniciando el sistema...",
		"buscando_actualizacion": "Buscando actualizaciones...",
		"confirmar_actualizar":   "¿Instalar la actualización?",
		"actualizando":           "Actualizando...",
		"actualizacion_ok":       "Actualización completada",
		"actualizacion_fallida":  "La actualización no se ha aplicado",
		"error_idioma":           "Error al cambiar el idioma",
	},
	models.LangCA: {
		"conectado":             "Connectat al campanar",
		"conexion_perdida":      "Connexió perduda, reintentant...",
		"sin_conexion":          "No hi ha connexió amb el campanar",
		"solicitando_alarmas":   "Sol·licitant alarmes...",
		"alarmas_cargadas":      "Alarmes carregades",
		"procesando":            "Processant...",
		"alarma_creada":         "Alarma creada correctament",
		"alarma_modificada":     "Alarma modificada correctament",
		"alarma_eliminada":      "Alarma eliminada correctament",
		"alarma_habilitada":     "Alarma habilitada",
		"alarma_deshabilitada":  "Alarma deshabilitada",
		"alarma_actualizada":    "Alarma actualitzada",
		"editando_alarma":       "Editant alarma",
		"confirmar_eliminar":    "Eliminar l'alarma?",
		"nombre_obligatorio":    "El nom és obligatori",
		"hora_invalida":         "Hora no vàlida (0-23)",
		"minuto_invalido":       "Minut no vàlid (0-59)",
		"campanas_protegidas":   "Campanes protegides, espereu",
		"calefaccion_error":     "No s'ha pogut encendre la calefacció",
		"limite_minutos":        "Màxim 120 minuts",
		"pin_incorrecto":        "PIN incorrecte",
		"config_guardada":       "Configuració desada",
		"actualizacion_ok":      "Actualització completada",
		"actualizacion_fallida": "L'actualització no s'ha aplicat",
	},
}

// Translator looks up catalog keys in the current language, then Spanish,
// then returns the key itself.
type Translator struct {
	lang atomic.Value // models.Language
}

func NewTranslator(lang models.Language) *Translator {
	t := &Translator{}
	t.SetLanguage(lang)
	return t
}

func (t *Translator) SetLanguage(lang models.Language) {
	if !lang.Valid() {
		lang = models.DefaultLanguage
	}
	t.lang.Store(lang)
}

func (t *Translator) Language() models.Language {
	if l, ok := t.lang.Load().(models.Language); ok {
		return l
	}
	return models.DefaultLanguage
}

// T returns the message for key.
func (t *Translator) T(key string) string {
	if t != nil {
		if s, ok := catalog[t.Language()][key]; ok {
			return s
		}
	}
	if s, ok := catalog[fallbackLanguage][key]; ok {
		return s
	}
	return key
}
