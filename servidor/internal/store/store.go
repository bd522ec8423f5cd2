// Package store persiste as cenas por view do servidor em SQLite (via GORM).
// Cada cena é guardada codificada em protobuf.
package store

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"EasyVis/shared/proto/scenepb"
	"EasyVis/shared/scenedata"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotFound indica que não há cena armazenada para a view.
var ErrNotFound = errors.New("cena não encontrada")

// SceneModel representa o esquema do banco de dados para a cena de uma view.
type SceneModel struct {
	ViewID    int `gorm:"primaryKey;autoIncrement:false"`
	Data      []byte // Cena serializada em protobuf
	Records   int    // Total de registros, para listagens sem decodificar
	UpdatedAt time.Time
}

// StoreMetadata guarda informações globais do banco.
type StoreMetadata struct {
	Key   string `gorm:"primaryKey"`
	Value string
}

// CurrentFormatVersion muda quando o formato de Data muda.
const CurrentFormatVersion = 1

const formatVersionKey = "FormatVersion"

// ErrNewerFormat indica um banco gravado por uma versão mais nova do servidor.
var ErrNewerFormat = errors.New("formato do banco mais novo que o suportado")

// Store é o armazenamento de cenas. Seguro para uso concorrente.
type Store struct {
	mu sync.RWMutex
	db *gorm.DB
}

// Open abre (ou cria) o banco em path e roda as migrações.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar no SQLite: %w", err)
	}

	if err := db.AutoMigrate(&SceneModel{}, &StoreMetadata{}); err != nil {
		return nil, fmt.Errorf("falha na migração do banco: %w", err)
	}
	st := &Store{db: db}
	version, err := st.FormatVersion()
	if err == nil && version > CurrentFormatVersion {
		err = fmt.Errorf("%w: %d > %d", ErrNewerFormat, version, CurrentFormatVersion)
	}
	if err == nil {
		err = db.Save(&StoreMetadata{Key: formatVersionKey, Value: strconv.Itoa(CurrentFormatVersion)}).Error
	}
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("falha ao gravar versão do formato: %w", err)
	}

	log.Printf("[Store] Banco de dados SQLite aberto: %s", path)
	return st, nil
}

// FormatVersion lê a versão do formato gravada no banco; 0 se ainda não houver.
func (s *Store) FormatVersion() (int, error) {
	var meta StoreMetadata
	res := s.db.Where("key = ?", formatVersionKey).Limit(1).Find(&meta)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, nil
	}
	v, err := strconv.Atoi(meta.Value)
	if err != nil {
		return 0, fmt.Errorf("versão do formato inválida %q: %w", meta.Value, err)
	}
	return v, nil
}

// Get devolve a cena armazenada da view, ou ErrNotFound.
func (s *Store) Get(viewID int) (*scenedata.Scene, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var model SceneModel
	err := s.db.First(&model, "view_id = ?", viewID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	sc, err := scenepb.Unmarshal(model.Data)
	if err != nil {
		return nil, fmt.Errorf("cena %d corrompida no banco: %w", viewID, err)
	}
	return sc, nil
}

// Put grava (ou substitui) a cena da view.
func (s *Store) Put(viewID int, sc *scenedata.Scene) error {
	if err := sc.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	model := SceneModel{
		ViewID:  viewID,
		Data:    scenepb.Marshal(sc),
		Records: sc.Count(),
	}
	if err := s.db.Save(&model).Error; err != nil {
		log.Printf("[Store] ERRO ao salvar cena %d: %v", viewID, err)
		return err
	}
	return nil
}

// Delete remove a cena da view. Devolve ErrNotFound se não havia cena.
func (s *Store) Delete(viewID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.db.Delete(&SceneModel{}, "view_id = ?", viewID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List devolve os ids das views com cena armazenada, em ordem crescente.
func (s *Store) List() ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := []int{}
	err := s.db.Model(&SceneModel{}).Order("view_id").Pluck("view_id", &ids).Error
	return ids, err
}

// Close fecha a conexão com o banco.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
