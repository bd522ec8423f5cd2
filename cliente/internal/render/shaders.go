package render

// Shader de iluminação simples (ambiente + uma direcional + especular leve)
// para desenho instanciado. A matriz de cada instância chega como atributo.
const litInstancedVertexShader = `
#version 330

in vec3 vertexPosition;
in vec2 vertexTexCoord;
in vec3 vertexNormal;
in mat4 instanceTransform;

uniform mat4 mvp;

out vec3 fragPosition;
out vec2 fragTexCoord;
out vec3 fragNormal;

void main()
{
    vec4 worldPos = instanceTransform * vec4(vertexPosition, 1.0);
    fragPosition = worldPos.xyz;
    fragTexCoord = vertexTexCoord;
    fragNormal = mat3(instanceTransform) * vertexNormal;
    gl_Position = mvp * worldPos;
}
`

const litFragmentShader = `
#version 330

in vec3 fragPosition;
in vec2 fragTexCoord;
in vec3 fragNormal;

uniform vec4 colDiffuse;
uniform vec3 viewPos;
uniform vec3 lightDir;
uniform vec3 ambient;
uniform vec3 lightColor;
uniform float specularPower;
uniform float specularStrength;

out vec4 finalColor;

void main()
{
    vec3 N = normalize(fragNormal);
    vec3 L = normalize(lightDir);
    vec3 V = normalize(viewPos - fragPosition);

    float NdotL = max(dot(N, L), 0.0);
    vec3 diffuse = colDiffuse.rgb * NdotL * lightColor;
    vec3 amb = ambient * colDiffuse.rgb;

    // Brilho tipo Phong (Blinn)
    vec3 H = normalize(L + V);
    float spec = pow(max(dot(N, H), 0.0), specularPower) * specularStrength;
    vec3 specular = lightColor * spec * (NdotL > 0.0 ? 1.0 : 0.0);

    finalColor = vec4(amb + diffuse + specular, colDiffuse.a);
}
`

const (
	specularPower    = float32(30.0)
	specularStrength = float32(0.25)
)
