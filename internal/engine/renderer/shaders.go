package renderer

// meshVertexShader lights geometry with a single directional light.
const meshVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;

uniform mat4 uMVP;
uniform mat3 uNormalMatrix;

out vec3 vNormal;

void main() {
	vNormal = uNormalMatrix * aNormal;
	gl_Position = uMVP * vec4(aPos, 1.0);
}
`

const meshFragmentShader = `
#version 410 core

in vec3 vNormal;

uniform vec3 uColor;
uniform vec3 uLightDir;
uniform float uAmbient;

out vec4 FragColor;

void main() {
	vec3 n = normalize(vNormal);
	// Two-sided so inverted faces stay visible while editing.
	float diffuse = abs(dot(n, -normalize(uLightDir)));
	FragColor = vec4(uColor * (uAmbient + (1.0 - uAmbient) * diffuse), 1.0);
}
`

// flatVertexShader draws points and lines in a single color.
const flatVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;

uniform mat4 uMVP;
uniform float uPointSize;

void main() {
	gl_Position = uMVP * vec4(aPos, 1.0);
	gl_PointSize = uPointSize;
}
`

const flatFragmentShader = `
#version 410 core

uniform vec4 uColor;

out vec4 FragColor;

void main() {
	FragColor = uColor;
}
`
