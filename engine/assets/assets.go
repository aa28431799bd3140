package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/setmaterial/engine/assets/loaders"
	"github.com/spaghettifunk/setmaterial/engine/renderer/metadata"
)

var (
	ErrAssetNotFound  = errors.New("asset not found")
	ErrNoLoader       = errors.New("no loader registered for asset type")
	ErrLoaderExists   = errors.New("loader already registered for asset type")
	ErrNotInitialized = errors.New("asset manager not initialized")
)

type AssetInfo struct {
	// Locator relative to the assets directory, always slash separated.
	Locator  string
	FullPath string
	Type     metadata.ResourceType
	LastSeen time.Time
}

// AssetManager indexes the assets directory and hands files to the loader
// registered for their type. The index follows the directory through an
// fsnotify watcher; loaded resources are never reloaded.
type AssetManager struct {
	basePath string
	assets   map[string]AssetInfo
	loaders  map[metadata.ResourceType]Loader

	mutex sync.RWMutex

	done     chan struct{}
	wg       sync.WaitGroup
	fsnotify *fsnotify.Watcher
	isClosed bool
	logger   *log.Logger
}

func NewAssetManager(logger *log.Logger) (*AssetManager, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &AssetManager{
		assets:   make(map[string]AssetInfo),
		loaders:  make(map[metadata.ResourceType]Loader),
		fsnotify: fsWatch,
		done:     make(chan struct{}),
		logger:   logger,
	}, nil
}

func (am *AssetManager) Initialize(assetsDir string) error {
	base, err := filepath.Abs(assetsDir)
	if err != nil {
		return err
	}
	fi, err := os.Stat(base)
	if err != nil {
		return fmt.Errorf("assets directory: %w", err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("assets directory '%s' is not a directory", base)
	}
	am.basePath = base

	am.wg.Add(1)
	go am.start()

	if err := am.watchRecursive(base); err != nil {
		return err
	}

	// Register loaders
	if err := am.RegisterLoader(metadata.ResourceTypeImage, &loaders.TextureLoader{}); err != nil {
		return err
	}
	if err := am.RegisterLoader(metadata.ResourceTypeModel, &loaders.ModelLoader{}); err != nil {
		return err
	}
	if err := am.RegisterLoader(metadata.ResourceTypeBuiltinTexture, &loaders.BuiltinTextureLoader{}); err != nil {
		return err
	}

	am.logger.Info("asset manager initialized", "path", base, "assets", am.Count())
	return nil
}

func (am *AssetManager) Shutdown() error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return nil
	}
	am.isClosed = true
	started := am.basePath != ""
	am.mutex.Unlock()

	close(am.done)
	am.wg.Wait()
	if !started {
		return am.fsnotify.Close()
	}
	return nil
}

// Register loaders for each asset type
func (am *AssetManager) RegisterLoader(assetType metadata.ResourceType, loader Loader) error {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	if _, exists := am.loaders[assetType]; exists {
		return fmt.Errorf("%w: %s", ErrLoaderExists, assetType)
	}
	am.loaders[assetType] = loader
	return nil
}

// Resolve maps a locator to an indexed asset. builtin:// locators resolve
// without touching the index.
func (am *AssetManager) Resolve(locator string) (AssetInfo, error) {
	if strings.HasPrefix(locator, metadata.BuiltinScheme) {
		return AssetInfo{
			Locator:  locator,
			FullPath: locator,
			Type:     metadata.ResourceTypeBuiltinTexture,
			LastSeen: time.Now(),
		}, nil
	}

	if am.basePath == "" {
		return AssetInfo{}, ErrNotInitialized
	}
	key := normalizeLocator(locator)
	am.mutex.RLock()
	asset, exists := am.assets[key]
	am.mutex.RUnlock()
	if !exists {
		return AssetInfo{}, fmt.Errorf("%w: %s", ErrAssetNotFound, locator)
	}
	return asset, nil
}

// Load an asset using the appropriate loader
func (am *AssetManager) LoadAsset(locator string, params interface{}) (*metadata.Resource, error) {
	asset, err := am.Resolve(locator)
	if err != nil {
		return nil, err
	}
	return am.LoadFile(asset.FullPath, asset.Type, params)
}

// LoadFile loads a file that is not necessarily indexed, for instance a
// texture referenced from inside a model.
func (am *AssetManager) LoadFile(fullPath string, resourceType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	am.mutex.RLock()
	loader, loaderExists := am.loaders[resourceType]
	am.mutex.RUnlock()
	if !loaderExists {
		return nil, fmt.Errorf("%w: %s", ErrNoLoader, resourceType)
	}

	res, err := loader.Load(fullPath, resourceType, params)
	if err != nil {
		return nil, err
	}
	res.Type = resourceType
	return res, nil
}

func (am *AssetManager) UnloadAsset(resource *metadata.Resource) error {
	if resource == nil {
		return nil
	}
	am.mutex.RLock()
	loader, ok := am.loaders[resource.Type]
	am.mutex.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoLoader, resource.Type)
	}
	return loader.Unload(resource)
}

func (am *AssetManager) Count() int {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	return len(am.assets)
}

func (am *AssetManager) BasePath() string {
	return am.basePath
}

func (am *AssetManager) start() {
	defer am.wg.Done()
	for {
		select {
		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			am.handleWatchEvent(e)

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			am.logger.Error("asset watcher", "err", err)

		case <-am.done:
			am.fsnotify.Close()
			return
		}
	}
}

func (am *AssetManager) handleWatchEvent(e fsnotify.Event) {
	if e.Op&fsnotify.Create != 0 {
		s, err := os.Stat(e.Name)
		if err == nil && s.IsDir() {
			if err := am.watchRecursive(e.Name); err != nil {
				am.logger.Error("unable to watch new directory", "path", e.Name, "err", err)
			}
			return
		}
	}
	// Handle create or modify events
	if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
		am.handleFileEvent(e.Name)
	}
	// Can't stat a deleted path, so drop it from the index and the watch list
	// whether it was a file or a directory.
	if e.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		am.removeAsset(e.Name)
		_ = am.fsnotify.Remove(e.Name)
	}
}

// watchRecursive adds all directories under the given one to the watch list
// and indexes the files found on the way.
func (am *AssetManager) watchRecursive(path string) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return am.fsnotify.Add(walkPath)
		}
		am.handleFileEvent(walkPath)
		return nil
	})
}

// Handle the creation or modification of a file
func (am *AssetManager) handleFileEvent(path string) {
	assetType := determineAssetType(path)
	if assetType == metadata.ResourceTypeNone {
		return
	}
	rel, err := filepath.Rel(am.basePath, path)
	if err != nil {
		return
	}
	key := normalizeLocator(rel)

	am.mutex.Lock()
	defer am.mutex.Unlock()
	am.assets[key] = AssetInfo{
		Locator:  key,
		FullPath: path,
		Type:     assetType,
		LastSeen: time.Now(),
	}
}

// Remove the asset (or every asset below a removed directory) from the index
func (am *AssetManager) removeAsset(path string) {
	rel, err := filepath.Rel(am.basePath, path)
	if err != nil {
		return
	}
	key := normalizeLocator(rel)

	am.mutex.Lock()
	defer am.mutex.Unlock()
	delete(am.assets, key)
	prefix := key + "/"
	for k := range am.assets {
		if strings.HasPrefix(k, prefix) {
			delete(am.assets, k)
		}
	}
}

func normalizeLocator(locator string) string {
	return strings.TrimPrefix(filepath.ToSlash(filepath.Clean(locator)), "./")
}

func determineAssetType(path string) metadata.ResourceType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff", ".webp":
		return metadata.ResourceTypeImage
	case ".gltf", ".glb":
		return metadata.ResourceTypeModel
	default:
		return metadata.ResourceTypeNone
	}
}
