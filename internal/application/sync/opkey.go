package sync

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/tu-usuario/farmasync-api/internal/application/dto"
	"github.com/tu-usuario/farmasync-api/internal/domain"
)

// BuildOpKey deriva la clave de idempotencia de un ítem de la cola.
// Si el cliente envía opKey se usa tal cual. Si no, se deriva del contenido:
// serialización canónica de (type, data, timestamp, deviceId) con orden de
// campos fijo y payload compactado, y SHA-256 en hex. Dos reenvíos
// byte-idénticos de la misma operación lógica colapsan a la misma clave aunque
// el cliente no coopere.
func BuildOpKey(item dto.SyncQueueItem) (string, error) {
	if item.OpKey != "" {
		return item.OpKey, nil
	}

	data := item.Data
	if len(data) == 0 {
		data = json.RawMessage("null")
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, data); err != nil {
		return "", fmt.Errorf("payload de sync no es JSON válido: %w", domain.ErrInvalidInput)
	}

	canonical := struct {
		Type      string          `json:"type"`
		Data      json.RawMessage `json:"data"`
		Timestamp int64           `json:"timestamp"`
		DeviceID  string          `json:"deviceId"`
	}{
		Type:      item.Type,
		Data:      compact.Bytes(),
		Timestamp: item.Timestamp,
		DeviceID:  item.DeviceID,
	}

	encoded, err := json.Marshal(canonical)
	if err != nil {
		return "", fmt.Errorf("serializar opKey: %w", err)
	}
	sum := sha256.Sum256(encoded)
	return hex.EncodeToString(sum[:]), nil
}
