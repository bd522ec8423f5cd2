package render

import (
	"fmt"
	"log"
	"unsafe"

	"EasyVis/cliente/internal/scene"
	"EasyVis/shared/scenedata"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Resolução da esfera base.
const (
	sphereRings  = 10
	sphereSlices = 10
)

// Índices em Shader.Locs (ver SHADER_LOC_* em raylib.h)
const (
	locMatrixMVP    = 6
	locMatrixModel  = 9
	locVectorView   = 11
	locColorDiffuse = 12
)

// Device aloca malhas e materiais na GPU. Requer a janela já aberta.
type Device struct {
	LitShader rl.Shader

	viewPosLoc       int32
	lightDirLoc      int32
	ambientLoc       int32
	lightColorLoc    int32
	specPowerLoc     int32
	specStrengthLoc  int32
	meshes, material int
}

// NewDevice compila o shader de iluminação instanciado.
func NewDevice() (*Device, error) {
	if !rl.IsWindowReady() {
		return nil, fmt.Errorf("janela não inicializada")
	}

	shader := rl.LoadShaderFromMemory(litInstancedVertexShader, litFragmentShader)
	if !rl.IsShaderValid(shader) {
		return nil, fmt.Errorf("falha ao compilar shader de iluminação")
	}

	// Registrar localizações para que a Raylib preencha mvp, instanceTransform e colDiffuse
	locs := unsafe.Slice(shader.Locs, 32)
	locs[locMatrixMVP] = rl.GetShaderLocation(shader, "mvp")
	locs[locMatrixModel] = rl.GetShaderLocationAttrib(shader, "instanceTransform")
	locs[locVectorView] = rl.GetShaderLocation(shader, "viewPos")
	locs[locColorDiffuse] = rl.GetShaderLocation(shader, "colDiffuse")

	d := &Device{
		LitShader:       shader,
		viewPosLoc:      rl.GetShaderLocation(shader, "viewPos"),
		lightDirLoc:     rl.GetShaderLocation(shader, "lightDir"),
		ambientLoc:      rl.GetShaderLocation(shader, "ambient"),
		lightColorLoc:   rl.GetShaderLocation(shader, "lightColor"),
		specPowerLoc:    rl.GetShaderLocation(shader, "specularPower"),
		specStrengthLoc: rl.GetShaderLocation(shader, "specularStrength"),
	}
	log.Printf("[Render] Shader de iluminação carregado (id %d)", shader.ID)
	return d, nil
}

// Mesh é a geometria base de um tipo de forma.
type Mesh struct {
	Mesh     rl.Mesh
	disposed bool
}

// Dispose descarrega a malha da GPU.
func (m *Mesh) Dispose() {
	if m.disposed {
		return
	}
	m.disposed = true
	rl.UnloadMesh(&m.Mesh)
}

// Material é o material de uma cor, usando o shader compartilhado do Device.
type Material struct {
	Material rl.Material
	Color    rl.Color

	defaultShader rl.Shader
	disposed      bool
}

// Dispose libera os mapas do material. O shader compartilhado é devolvido ao
// padrão antes, para que UnloadMaterial não o descarregue.
func (m *Material) Dispose() {
	if m.disposed {
		return
	}
	m.disposed = true
	m.Material.Shader = m.defaultShader
	rl.UnloadMaterial(m.Material)
}

// NewMesh gera a malha base do tipo. Tipos desconhecidos nunca chegam aqui
// (o cache só pede os suportados); falha de alocação é fatal.
func (d *Device) NewMesh(kind string) scene.Disposable {
	var mesh rl.Mesh
	switch kind {
	case scenedata.KindCuboid:
		mesh = rl.GenMeshCube(1, 1, 1)
	default:
		mesh = rl.GenMeshSphere(1, sphereRings, sphereSlices)
	}
	if mesh.VertexCount == 0 || mesh.VaoID == 0 {
		panic(fmt.Sprintf("render: falha ao alocar malha %q", kind))
	}
	d.meshes++
	return &Mesh{Mesh: mesh}
}

// NewMaterial cria o material de uma cor 0xRRGGBB.
func (d *Device) NewMaterial(color uint32) scene.Disposable {
	mtl := rl.LoadMaterialDefault()
	albedo := mtl.GetMap(rl.MapAlbedo)
	if albedo == nil {
		panic(fmt.Sprintf("render: falha ao alocar material 0x%06x", color))
	}
	c := ColorFromHex(color)
	albedo.Color = c

	m := &Material{Material: mtl, Color: c, defaultShader: mtl.Shader}
	m.Material.Shader = d.LitShader
	d.material++
	return m
}

// Allocated retorna quantas malhas e materiais foram criados.
func (d *Device) Allocated() (meshes, materials int) {
	return d.meshes, d.material
}

// Dispose descarrega o shader compartilhado. Chamar depois de ResourceCache.Release.
func (d *Device) Dispose() {
	if rl.IsShaderValid(d.LitShader) {
		rl.UnloadShader(d.LitShader)
	}
}

// setLightUniforms envia câmera e luzes do quadro ao shader.
func (d *Device) setLightUniforms(frame *scene.Frame) {
	ambient := [3]float32{}
	lightDir := [3]float32{0, 1, 0}
	lightColor := [3]float32{}

	for _, l := range frame.Lights {
		switch light := l.(type) {
		case *scene.AmbientLight:
			rgb := rgbFromHex(light.Color)
			for i := range ambient {
				ambient[i] += rgb[i] * light.Intensity
			}
		case *scene.DirectionalLight:
			rgb := rgbFromHex(light.Color)
			for i := range lightColor {
				lightColor[i] += rgb[i] * light.Intensity
			}
			// O shader quer a direção da superfície até a luz
			toLight := light.Direction().Mul(-1)
			lightDir = [3]float32{toLight.X(), toLight.Y(), toLight.Z()}
		}
	}

	viewPos := [3]float32{frame.CameraPosition.X(), frame.CameraPosition.Y(), frame.CameraPosition.Z()}
	rl.SetShaderValueV(d.LitShader, d.viewPosLoc, viewPos[:], rl.ShaderUniformVec3, 1)
	rl.SetShaderValueV(d.LitShader, d.lightDirLoc, lightDir[:], rl.ShaderUniformVec3, 1)
	rl.SetShaderValueV(d.LitShader, d.ambientLoc, ambient[:], rl.ShaderUniformVec3, 1)
	rl.SetShaderValueV(d.LitShader, d.lightColorLoc, lightColor[:], rl.ShaderUniformVec3, 1)
	rl.SetShaderValue(d.LitShader, d.specPowerLoc, []float32{specularPower}, rl.ShaderUniformFloat)
	rl.SetShaderValue(d.LitShader, d.specStrengthLoc, []float32{specularStrength}, rl.ShaderUniformFloat)
}
